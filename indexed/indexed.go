/*
Package indexed converts composited maps into paletted images.

Maps built from small pixel-art tilesets rarely use more than a few dozen
colors, so writing them with a palette gives much smaller files. Images that
already fit within the requested number of colors keep their exact colors,
anything else is reduced with a median cut quantizer.
*/
package indexed

const (
	minColors = 1
	maxColors = 256
)
