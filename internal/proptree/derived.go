package proptree

import "factorix/internal/version"

// WriteGameVersion writes v as four consecutive little-endian u16
// components (major, minor, patch, build).
func (w *Writer) WriteGameVersion(v version.GameVersion) {
	w.WriteU16(v.Major)
	w.WriteU16(v.Minor)
	w.WriteU16(v.Patch)
	w.WriteU16(v.Build)
}

// ReadGameVersion reads the four-component little-endian u16 game
// version layout.
func (r *Reader) ReadGameVersion() (version.GameVersion, error) {
	var v version.GameVersion
	var err error
	if v.Major, err = r.ReadU16(); err != nil {
		return v, err
	}
	if v.Minor, err = r.ReadU16(); err != nil {
		return v, err
	}
	if v.Patch, err = r.ReadU16(); err != nil {
		return v, err
	}
	if v.Build, err = r.ReadU16(); err != nil {
		return v, err
	}
	return v, nil
}

// WriteModVersion writes v as three consecutive u8 components.
func (w *Writer) WriteModVersion(v version.ModVersion) {
	w.WriteU8(v.Major)
	w.WriteU8(v.Minor)
	w.WriteU8(v.Patch)
}

// ReadModVersion reads the three-component u8 mod version layout.
func (r *Reader) ReadModVersion() (version.ModVersion, error) {
	var v version.ModVersion
	var err error
	if v.Major, err = r.ReadU8(); err != nil {
		return v, err
	}
	if v.Minor, err = r.ReadU8(); err != nil {
		return v, err
	}
	if v.Patch, err = r.ReadU8(); err != nil {
		return v, err
	}
	return v, nil
}

// WriteSignedLong writes v as 8 little-endian bytes.
func (w *Writer) WriteSignedLong(v int64) { w.WriteU64(uint64(v)) }

// ReadSignedLong reads 8 little-endian bytes as a signed long.
func (r *Reader) ReadSignedLong() (int64, error) {
	u, err := r.ReadU64()
	return int64(u), err
}

// WriteUnsignedLong writes v as 8 little-endian bytes.
func (w *Writer) WriteUnsignedLong(v uint64) { w.WriteU64(v) }

// ReadUnsignedLong reads 8 little-endian bytes as an unsigned long.
func (r *Reader) ReadUnsignedLong() (uint64, error) { return r.ReadU64() }
