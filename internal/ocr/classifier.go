package ocr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"

	"github.com/stemsi/neetquiz-backend/internal/model"
)

// AlwaysCamera routes every image through the camera-photo path.
type AlwaysCamera struct{}

func (AlwaysCamera) Classify(context.Context, string) (model.ImageKind, error) {
	return model.ImageKindCameraPhoto, nil
}

var (
	jpegMagic = []byte{0xFF, 0xD8}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	gifMagic  = []byte{0x47, 0x49, 0x46}
)

// ExifClassifier treats a JPEG/PNG/GIF without EXIF metadata as a screenshot.
// Anything it cannot read, or does not recognise, is a camera photo.
type ExifClassifier struct{}

func (ExifClassifier) Classify(_ context.Context, localPath string) (model.ImageKind, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return model.ImageKindCameraPhoto, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	head, err := r.Peek(12)
	if err != nil {
		return model.ImageKindCameraPhoto, nil
	}

	var hasExif bool
	switch {
	case bytes.HasPrefix(head, jpegMagic):
		hasExif = jpegHasExif(r)
	case bytes.HasPrefix(head, pngMagic):
		hasExif = pngHasExif(r)
	case bytes.HasPrefix(head, gifMagic):
		hasExif = false
	default:
		return model.ImageKindCameraPhoto, nil
	}

	if hasExif {
		return model.ImageKindCameraPhoto, nil
	}
	return model.ImageKindScreenshot, nil
}

// jpegHasExif walks the marker segments before the scan looking for an APP1 Exif block.
func jpegHasExif(r io.Reader) bool {
	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil {
		return false
	}
	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil || hdr[0] != 0xFF {
			return false
		}
		marker := hdr[1]
		size := int(binary.BigEndian.Uint16(hdr[2:])) - 2
		if marker == 0xDA || size < 0 {
			return false
		}
		seg := make([]byte, size)
		if _, err := io.ReadFull(r, seg); err != nil {
			return false
		}
		if marker == 0xE1 && bytes.HasPrefix(seg, []byte("Exif\x00\x00")) {
			return true
		}
	}
}

// pngHasExif walks chunks until IDAT looking for an eXIf chunk.
func pngHasExif(r io.Reader) bool {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return false
	}
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return false
		}
		length := binary.BigEndian.Uint32(hdr[:4])
		switch string(hdr[4:]) {
		case "eXIf":
			return true
		case "IDAT", "IEND":
			return false
		}
		if _, err := io.CopyN(io.Discard, r, int64(length)+4); err != nil {
			return false
		}
	}
}
