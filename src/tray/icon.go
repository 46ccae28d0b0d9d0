package tray

import "encoding/binary"

// getIcon returns a generated 16x16 ICO: a red selection frame with a green
// inner frame on a transparent field, echoing the overlay colors.
func getIcon() []byte {
	const (
		width  = 16
		height = 16
	)

	header := []byte{
		0x00, 0x00, // reserved
		0x01, 0x00, // type: ICO
		0x01, 0x00, // one image
	}

	imageSize := width * height * 4
	maskSize := height * 4 // 1bpp AND mask rows padded to 32 bits
	bmpHeaderSize := 40
	totalImageSize := bmpHeaderSize + imageSize + maskSize

	// ICONDIRENTRY: w, h, colors, reserved, planes u16, bpp u16,
	// bytes-in-resource u32, data offset u32.
	entry := make([]byte, 16)
	entry[0] = width
	entry[1] = height
	binary.LittleEndian.PutUint16(entry[4:], 1)   // planes
	binary.LittleEndian.PutUint16(entry[6:], 32)  // bpp
	binary.LittleEndian.PutUint32(entry[8:], uint32(totalImageSize))
	binary.LittleEndian.PutUint32(entry[12:], uint32(len(header)+len(entry)))

	bmpHeader := make([]byte, bmpHeaderSize)
	binary.LittleEndian.PutUint32(bmpHeader[0:], uint32(bmpHeaderSize))
	binary.LittleEndian.PutUint32(bmpHeader[4:], width)
	binary.LittleEndian.PutUint32(bmpHeader[8:], height*2) // XOR + AND halves
	binary.LittleEndian.PutUint16(bmpHeader[12:], 1)       // planes
	binary.LittleEndian.PutUint16(bmpHeader[14:], 32)      // bpp
	binary.LittleEndian.PutUint32(bmpHeader[20:], uint32(imageSize+maskSize))

	// Pixel rows, bottom-up, BGRA.
	pixels := make([]byte, imageSize)
	setPixel := func(x, y int, b, g, r, a byte) {
		row := height - 1 - y
		off := (row*width + x) * 4
		pixels[off] = b
		pixels[off+1] = g
		pixels[off+2] = r
		pixels[off+3] = a
	}
	onOuter := func(x, y int) bool {
		return (x == 1 || x == 14 || y == 1 || y == 14) && x >= 1 && x <= 14 && y >= 1 && y <= 14
	}
	onInner := func(x, y int) bool {
		return (x == 5 || x == 10 || y == 5 || y == 10) && x >= 5 && x <= 10 && y >= 5 && y <= 10
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			switch {
			case onOuter(x, y):
				setPixel(x, y, 0, 0, 255, 255) // red frame
			case onInner(x, y):
				setPixel(x, y, 0, 255, 0, 255) // green frame
			}
		}
	}

	mask := make([]byte, maskSize) // all zero: rely on alpha

	out := make([]byte, 0, len(header)+len(entry)+totalImageSize)
	out = append(out, header...)
	out = append(out, entry...)
	out = append(out, bmpHeader...)
	out = append(out, pixels...)
	out = append(out, mask...)
	return out
}
