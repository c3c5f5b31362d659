// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package framebuffer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"
	"unsafe"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"

	"github.com/canselcik/libremarkable-go/canvas"
)

const (
	displayWidth  = 1404
	displayHeight = 1872
	bytesPerPixel = 2 // RGB565
)

// Linux fb.h ioctl numbers (not covered by golang.org/x/sys/unix).
const (
	fbioputVScreeninfo = 0x4601
	fbiogetVScreeninfo = 0x4600
	fbiogetFScreeninfo = 0x4602
)

const devicePath = "/dev/fb0"

// gen2Path is the rm2fb shim's shared frame file. The shim's display
// process mmaps the same file, so writes here land on the panel once an
// update message is queued for them.
const gen2Path = "/dev/shm/swtfb.01"

// setupSink chains fallible ioctl setup steps, returning on the first
// failure, in the manner of the sendData/sendCommand error chain used
// elsewhere in this codebase's device drivers.
type setupSink struct {
	fd  int
	err error
}

func (s *setupSink) ioctl(req uintptr, arg unsafe.Pointer) {
	if s.err != nil {
		return
	}
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), req, uintptr(arg)); errno != 0 {
		s.err = errno
	}
}

// Device is a memory-mapped view of the reMarkable's display surface,
// constructed by Open (Gen1, or Gen2 under the rm2fb LD_PRELOAD shim),
// OpenGen2 (the shim's shared frame file directly), or NewSynthetic (a
// plain heap buffer for code that runs without hardware).
type Device struct {
	file *os.File
	fd   int
	buf  []byte // mmap'd native RGB565LE frame
	vsi  varScreeninfo
	fsi  fixScreeninfo
	font *truetype.Font
	face font.Face

	mu sync.Mutex
}

// Open memory-maps the framebuffer device, applying the reMarkable's
// portrait var_screeninfo configuration unconditionally.
func Open() (*Device, error) {
	f, err := os.OpenFile(devicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("framebuffer: opening %s: %w", devicePath, err)
	}
	fd := int(f.Fd())

	var vsi varScreeninfo
	var fsi fixScreeninfo
	s := setupSink{fd: fd}
	s.ioctl(fbiogetVScreeninfo, unsafe.Pointer(&vsi))
	applyPortraitConfig(&vsi)
	s.ioctl(fbioputVScreeninfo, unsafe.Pointer(&vsi))
	s.ioctl(fbiogetFScreeninfo, unsafe.Pointer(&fsi))
	if s.err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: configuring screeninfo: %w", s.err)
	}

	frameLen := int(fsi.LineLength) * int(vsi.Yres)
	if frameLen <= 0 {
		frameLen = displayWidth * displayHeight * bytesPerPixel
	}
	buf, err := unix.Mmap(fd, 0, frameLen, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: mmap: %w", err)
	}

	return &Device{file: f, fd: fd, buf: buf, vsi: vsi, fsi: fsi, face: basicfont.Face7x13}, nil
}

// OpenGen2 memory-maps the rm2fb shim's shared frame file directly,
// truncating it to the full frame size the way the shim's own clients do.
// No screeninfo ioctls exist on this path; the equivalent configuration is
// synthesized. Use Open instead when running under the shim's LD_PRELOAD
// compatibility layer, which redirects /dev/fb0 itself.
func OpenGen2() (*Device, error) {
	f, err := os.OpenFile(gen2Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("framebuffer: opening %s: %w", gen2Path, err)
	}
	fd := int(f.Fd())

	frameLen := displayWidth * displayHeight * bytesPerPixel
	if err := unix.Ftruncate(fd, int64(frameLen)); err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: truncating %s: %w", gen2Path, err)
	}
	buf, err := unix.Mmap(fd, 0, frameLen, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("framebuffer: mmap: %w", err)
	}

	var vsi varScreeninfo
	applyPortraitConfig(&vsi)
	fsi := fixScreeninfo{
		LineLength: displayWidth * bytesPerPixel,
		SmemLen:    uint32(frameLen),
	}
	return &Device{file: f, fd: fd, buf: buf, vsi: vsi, fsi: fsi, face: basicfont.Face7x13}, nil
}

// Fd returns the underlying device file descriptor, for use by the epdc
// package when issuing update ioctls against the same open device.
func (d *Device) Fd() int {
	return d.fd
}

// String implements conn.Resource.
func (d *Device) String() string {
	return fmt.Sprintf("framebuffer.Device{%s, %dx%d}", devicePath, d.vsi.Xres, d.vsi.Yres)
}

// Halt implements conn.Resource, unmapping the framebuffer and closing the
// device. The Device is unusable afterwards.
func (d *Device) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.file != nil {
		if d.buf != nil {
			err = unix.Munmap(d.buf)
		}
		if cerr := d.file.Close(); err == nil {
			err = cerr
		}
		d.file = nil
	}
	d.buf = nil
	return err
}

var _ conn.Resource = (*Device)(nil)
var _ display.Drawer = (*Device)(nil)

func (d *Device) offset(x, y int) int {
	return y*int(d.fsi.LineLength) + x*bytesPerPixel
}

// WritePixel sets a single pixel to c.
func (d *Device) WritePixel(x, y int, c Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writePixelLocked(x, y, c)
}

func (d *Device) writePixelLocked(x, y int, c Color) {
	off := d.offset(x, y)
	if off < 0 || off+1 >= len(d.buf) {
		return
	}
	native := c.Native()
	d.buf[off] = native[0]
	d.buf[off+1] = native[1]
}

// ReadPixel returns the color currently stored at (x, y).
func (d *Device) ReadPixel(x, y int) Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	off := d.offset(x, y)
	if off < 0 || off+1 >= len(d.buf) {
		return White
	}
	return FromNative([2]byte{d.buf[off], d.buf[off+1]})
}

// WriteFrame overwrites the whole mapped frame with the given native pixel
// bytes. Input shorter than the mapping leaves the remainder untouched;
// longer input is truncated.
func (d *Device) WriteFrame(frame []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(d.buf, frame)
}

// ErrDumpZeroSize is returned by DumpRegion and RestoreRegion for a
// degenerate (zero width or height) rectangle.
var ErrDumpZeroSize = fmt.Errorf("framebuffer: zero-size region")

// ErrDumpOutOfBounds is returned by DumpRegion and RestoreRegion when r
// falls outside the display's visible area.
var ErrDumpOutOfBounds = fmt.Errorf("framebuffer: region out of bounds")

// DumpRegion copies out the native pixel bytes under r, for use by the
// canvas package's undo/redo snapshots.
func (d *Device) DumpRegion(r Rectangle) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if r.Width == 0 || r.Height == 0 {
		return nil, ErrDumpZeroSize
	}
	if r.Left+r.Width > uint32(d.vsi.Xres) || r.Top+r.Height > uint32(d.vsi.Yres) {
		return nil, ErrDumpOutOfBounds
	}

	out := make([]byte, r.Width*r.Height*bytesPerPixel)
	for row := uint32(0); row < r.Height; row++ {
		srcOff := d.offset(int(r.Left), int(r.Top+row))
		dstOff := int(row * r.Width * bytesPerPixel)
		n := int(r.Width) * bytesPerPixel
		if srcOff < 0 || srcOff+n > len(d.buf) {
			continue
		}
		copy(out[dstOff:dstOff+n], d.buf[srcOff:srcOff+n])
	}
	return out, nil
}

// RestoreRegion writes back pixel bytes previously captured by DumpRegion.
func (d *Device) RestoreRegion(r Rectangle, data []byte) error {
	if r.Width == 0 || r.Height == 0 {
		return ErrDumpZeroSize
	}
	if r.Left+r.Width > uint32(d.vsi.Xres) || r.Top+r.Height > uint32(d.vsi.Yres) {
		return ErrDumpOutOfBounds
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for row := uint32(0); row < r.Height; row++ {
		dstOff := d.offset(int(r.Left), int(r.Top+row))
		srcOff := int(row * r.Width * bytesPerPixel)
		n := int(r.Width) * bytesPerPixel
		if dstOff < 0 || dstOff+n > len(d.buf) || srcOff+n > len(data) {
			continue
		}
		copy(d.buf[dstOff:dstOff+n], data[srcOff:srcOff+n])
	}
	return nil
}

// DumpRegionCompressed is DumpRegion followed by zstd compression, for
// callers building an undo/redo history where keeping every snapshot raw
// would be wasteful.
func (d *Device) DumpRegionCompressed(r Rectangle) (*canvas.CompressedCanvas, error) {
	raw, err := d.DumpRegion(r)
	if err != nil {
		return nil, err
	}
	return canvas.Compress(r.Width, r.Height, raw)
}

// RestoreRegionCompressed decompresses c and writes it back at r. r's
// dimensions must match the ones c was compressed with.
func (d *Device) RestoreRegionCompressed(r Rectangle, c *canvas.CompressedCanvas) error {
	if c.Width() != r.Width || c.Height() != r.Height {
		return fmt.Errorf("framebuffer: restore size mismatch: region %dx%d, canvas %dx%d", r.Width, r.Height, c.Width(), c.Height())
	}
	raw, err := c.Decompress()
	if err != nil {
		return err
	}
	return d.RestoreRegion(r, raw)
}

// ColorModel implements display.Drawer.
func (d *Device) ColorModel() color.Model {
	return rgb565Model{}
}

// Bounds implements display.Drawer.
func (d *Device) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(d.vsi.Xres), int(d.vsi.Yres))
}

// Draw implements display.Drawer, blitting src into the framebuffer without
// triggering an EPDC refresh; callers use the epdc package to flush the
// drawn region to the panel.
func (d *Device) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	dstRect = dstRect.Intersect(image.Rect(0, 0, int(d.vsi.Xres), int(d.vsi.Yres)))
	dst := &rgb565Image{d: d}
	draw.Draw(dst, dstRect, src, srcPts, draw.Src)
	return nil
}

// rgb565Model reports the color.Model for the panel's native encoding.
type rgb565Model struct{}

func (rgb565Model) Convert(c color.Color) color.Color {
	r32, g32, b32, _ := c.RGBA()
	native := RGB(uint8(r32>>8), uint8(g32>>8), uint8(b32>>8))
	nr, ng, nb := native.RGB8()
	return color.RGBA{R: nr, G: ng, B: nb, A: 0xff}
}

// rgb565Image adapts Device to image.Image/draw.Image for use as a
// draw.Draw destination, writing directly into the mmap'd buffer.
type rgb565Image struct {
	d *Device
}

func (i *rgb565Image) ColorModel() color.Model { return rgb565Model{} }
func (i *rgb565Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(i.d.vsi.Xres), int(i.d.vsi.Yres))
}

// At reads without taking d.mu: rgb565Image only exists inside Draw, which
// already holds the lock for the whole blit.
func (i *rgb565Image) At(x, y int) color.Color {
	off := i.d.offset(x, y)
	if off < 0 || off+1 >= len(i.d.buf) {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	r, g, b := FromNative([2]byte{i.d.buf[off], i.d.buf[off+1]}).RGB8()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
func (i *rgb565Image) Set(x, y int, c color.Color) {
	r32, g32, b32, _ := c.RGBA()
	i.d.writePixelLocked(x, y, RGB(uint8(r32>>8), uint8(g32>>8), uint8(b32>>8)))
}
