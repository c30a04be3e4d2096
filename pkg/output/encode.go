package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an image file format
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Compression is an optional stream compression wrapped around the encoded image
type Compression string

const (
	CompressionNone   Compression = ""
	CompressionZstd   Compression = "zst"
	CompressionSnappy Compression = "sz"
)

// ParsePath derives the format and compression from a file name such as
// "render.ppm", "render.png.zst" or "render.ppm.sz"
func ParsePath(path string) (Format, Compression, error) {
	name := strings.ToLower(filepath.Base(path))
	compression := CompressionNone

	switch ext := filepath.Ext(name); ext {
	case ".zst":
		compression = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	case ".sz":
		compression = CompressionSnappy
		name = strings.TrimSuffix(name, ext)
	}

	var format Format
	switch ext := filepath.Ext(name); ext {
	case ".ppm":
		format = FormatPPM
	case ".png":
		format = FormatPNG
	case ".bmp":
		format = FormatBMP
	case ".tif", ".tiff":
		format = FormatTIFF
	default:
		return "", "", fmt.Errorf("unsupported image extension %q in %s", ext, path)
	}

	return format, compression, nil
}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPPM:
		return EncodePPM(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// EncodeCompressed writes img to w in format, wrapped in the given compression
func EncodeCompressed(w io.Writer, img image.Image, format Format, compression Compression) error {
	switch compression {
	case CompressionNone:
		return Encode(w, img, format)
	case CompressionZstd:
		stream, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		if err := Encode(stream, img, format); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	case CompressionSnappy:
		stream := snappy.NewBufferedWriter(w)
		if err := Encode(stream, img, format); err != nil {
			stream.Close()
			return err
		}
		return stream.Close()
	default:
		return fmt.Errorf("unsupported compression %q", compression)
	}
}

// WriteFile encodes img into path, choosing the format and compression from the
// file name and creating parent directories as needed
func WriteFile(path string, img image.Image) (err error) {
	format, compression, err := ParsePath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	if err := EncodeCompressed(file, img, format, compression); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
