// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging processes uploaded images with pure Go libraries: user
// avatars are cropped square, news photos are bounded to a maximum size. EXIF
// orientation is honored and stripped on re-encode.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// MaxAvatarSize is the upload ceiling for avatar images.
const MaxAvatarSize = 5 << 20 // 5MB

// MaxNoticiaImagenSize is the upload ceiling for article photos.
const MaxNoticiaImagenSize = 10 << 20 // 10MB

// AvatarSize is the edge length of the square avatar output.
const AvatarSize = 256

// NoticiaMaxDimension bounds both edges of a processed news photo.
const NoticiaMaxDimension = 1600

const jpegQuality = 90

// Result describes a processed and stored image.
type Result struct {
	RelPath string
	Width   int
	Height  int
	Size    int64
}

// Processor converts uploaded images into their stored form.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a Processor writing under uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// decode reads the full payload, rejects non-image data and applies the EXIF
// orientation so the stored copy renders upright everywhere.
func decode(r io.Reader, maxSize int64) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("image exceeds the %d byte limit", maxSize)
	}

	if !isSupportedImage(data) {
		return nil, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return applyOrientation(img, readExifOrientation(bytes.NewReader(data))), nil
}

// isSupportedImage sniffs the payload. TIFF is rejected explicitly
// (CVE-2023-36308 in disintegration/imaging).
func isSupportedImage(data []byte) bool {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return false
	}
	switch {
	case strings.Contains(contentType, "jpeg"),
		strings.Contains(contentType, "png"),
		strings.Contains(contentType, "webp"):
		return true
	}
	return false
}

// IsImageUpload reports whether the payload looks like a processable image
// without decoding it fully.
func IsImageUpload(data []byte) bool {
	return isSupportedImage(data)
}

// ProcessAvatar crops an uploaded avatar to a centered square, scales it to
// AvatarSize and stores it as JPEG under avatars/. Returns the
// storage-relative path.
func (p *Processor) ProcessAvatar(r io.Reader, uuid string) (*Result, error) {
	img, err := decode(r, MaxAvatarSize)
	if err != nil {
		return nil, err
	}

	square := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	return p.saveJPEG(filepath.Join("avatars", uuid+".jpg"), square)
}

// ProcessNoticiaImagen bounds a news photo to NoticiaMaxDimension on both
// edges, preserving aspect ratio, and stores it as JPEG under noticias/.
func (p *Processor) ProcessNoticiaImagen(r io.Reader, maxSize int64, uuid string) (*Result, error) {
	img, err := decode(r, maxSize)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > NoticiaMaxDimension || bounds.Dy() > NoticiaMaxDimension {
		img = imaging.Fit(img, NoticiaMaxDimension, NoticiaMaxDimension, imaging.Lanczos)
	}
	return p.saveJPEG(filepath.Join("noticias", uuid+".jpg"), img)
}

// ProcessFoto stores a council-member portrait under consejeros/, bounded the
// same way news photos are.
func (p *Processor) ProcessFoto(r io.Reader, maxSize int64, uuid string) (*Result, error) {
	img, err := decode(r, maxSize)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > NoticiaMaxDimension || bounds.Dy() > NoticiaMaxDimension {
		img = imaging.Fit(img, NoticiaMaxDimension, NoticiaMaxDimension, imaging.Lanczos)
	}
	return p.saveJPEG(filepath.Join("consejeros", uuid+".jpg"), img)
}

// Delete removes a stored image by its storage-relative path.
func (p *Processor) Delete(relPath string) error {
	abs, err := p.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting image: %w", err)
	}
	return nil
}

func (p *Processor) saveJPEG(relPath string, img image.Image) (*Result, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	abs, err := p.resolve(relPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("creating image directory: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		RelPath: filepath.ToSlash(relPath),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Size:    int64(buf.Len()),
	}, nil
}

// resolve joins relPath under the upload directory and verifies containment.
func (p *Processor) resolve(relPath string) (string, error) {
	clean := filepath.Clean(relPath)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid image path")
	}
	absBase, err := filepath.Abs(p.uploadDir)
	if err != nil {
		return "", fmt.Errorf("resolving upload directory: %w", err)
	}
	target := filepath.Join(absBase, clean)
	rel, err := filepath.Rel(absBase, target)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid image path")
	}
	return target, nil
}

// readExifOrientation reads the EXIF orientation tag, defaulting to 1.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image according to its EXIF orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// EncodePNG is a small helper used by tests and tooling to build image
// payloads without pulling in extra dependencies.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
