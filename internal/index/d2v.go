package index

import (
	"bytes"
	"fmt"
	"os"
)

var scaleKey = []byte("YUVRGB_Scale=")

// CorrectRangeByte rewrites the YUVRGB_Scale byte of a d2v project file in
// place so a reused index matches the configured input range ("limited" -> 1,
// anything else -> 0). Returns true when the byte was changed.
func CorrectRangeByte(indexPath, inputRange string) (bool, error) {
	want := byte('1')
	if inputRange == "full" {
		want = byte('0')
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		return false, fmt.Errorf("failed to read d2v index: %w", err)
	}
	pos := bytes.Index(data, scaleKey)
	if pos < 0 || pos+len(scaleKey) >= len(data) {
		return false, fmt.Errorf("no YUVRGB_Scale line in %s, not a compatible d2v file", indexPath)
	}
	offset := int64(pos + len(scaleKey))
	if data[offset] == want {
		return false, nil
	}

	f, err := os.OpenFile(indexPath, os.O_WRONLY, 0)
	if err != nil {
		return false, fmt.Errorf("failed to open d2v index for correction: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteAt([]byte{want}, offset); err != nil {
		return false, fmt.Errorf("failed to correct input range byte: %w", err)
	}
	return true, nil
}
