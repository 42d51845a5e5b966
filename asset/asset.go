// Embeds the default device drawn by the overlay.
package asset

import "embed"

// Name is the file name of the default device in FS.
const Name = "game-boy-advance-sp.svg"

// FS contains the default device.
//
//go:embed game-boy-advance-sp.svg
var FS embed.FS
