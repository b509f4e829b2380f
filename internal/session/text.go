package session

import "fmt"

// HelpText is shown by the help overlay.
const HelpText = `IMAGE SELECTOR

Open images
  The session starts with the image or PDF given on the command line.
  PDFs show their first embedded image, or the first page rendered.
  Press A to add more files and click the image list to switch.

Select regions
  Pick a mode with F (foto) or T (text).
  Drag a rectangle over the image, then press S to save it.
  Press Delete to clear the regions of the current image.

Rotate
  [ turns left, ] turns right, R turns 180 degrees.
  Rotating resets the regions of that image.

Export
  Press Enter to export every region of every image.
  Files are written to the tmp directory of the working directory:
    name_timestamp_regionNN_foto.png
    name_timestamp_regionNN_text.png and .txt

Modes
  FOTO regions are marked blue and exported as PNG.
  TEXT regions are marked green and exported as PNG plus OCR text.

Press Esc or click to close this help.`

// AboutText is shown by the about overlay.
func AboutText(version string) string {
	return fmt.Sprintf("Image Selector %s\n\nInteractive region selection for images and PDFs,\nusable standalone or as an MCP tool.\n\nMIT License", version)
}
