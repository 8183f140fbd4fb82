package protocol

import (
	"fmt"
	"math"

	"github.com/luma/voxelwire/wire"
)

// fieldReader and fieldWriter keep command codecs flat: the first error
// sticks and every later access becomes a no-op, so a command layout
// reads as a straight list of fields instead of a ladder of checks.

type fieldReader struct {
	r   *wire.Reader
	err error
}

func (f *fieldReader) u8() uint8 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.U8()
	f.err = err
	return v
}

func (f *fieldReader) u16() uint16 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.U16()
	f.err = err
	return v
}

func (f *fieldReader) u32() uint32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.U32()
	f.err = err
	return v
}

func (f *fieldReader) u64() uint64 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.U64()
	f.err = err
	return v
}

func (f *fieldReader) s16() int16 {
	return int16(f.u16())
}

func (f *fieldReader) s32() int32 {
	return int32(f.u32())
}

func (f *fieldReader) f32() float32 {
	if f.err != nil {
		return 0
	}
	v, err := f.r.F32()
	f.err = err
	return v
}

func (f *fieldReader) boolean() bool {
	if f.err != nil {
		return false
	}
	v, err := f.r.Bool()
	f.err = err
	return v
}

func (f *fieldReader) str() string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.String()
	f.err = err
	return v
}

func (f *fieldReader) longStr() string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.LongString()
	f.err = err
	return v
}

func (f *fieldReader) wstr() string {
	if f.err != nil {
		return ""
	}
	v, err := f.r.WString()
	f.err = err
	return v
}

func (f *fieldReader) bytes16() []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.r.Bytes16()
	f.err = err
	return append([]byte(nil), v...)
}

func (f *fieldReader) bytes32() []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.r.Bytes32()
	f.err = err
	return append([]byte(nil), v...)
}

func (f *fieldReader) zlibBytes32() []byte {
	if f.err != nil {
		return nil
	}
	v, err := f.r.ZlibBytes32()
	f.err = err
	return v
}

// rest consumes every remaining byte.
func (f *fieldReader) rest() []byte {
	if f.err != nil {
		return nil
	}
	return append([]byte(nil), f.r.TakeAll()...)
}

func (f *fieldReader) v2f() V2F {
	return V2F{X: f.f32(), Y: f.f32()}
}

func (f *fieldReader) v3f() V3F {
	return V3F{X: f.f32(), Y: f.f32(), Z: f.f32()}
}

func (f *fieldReader) v3s16() V3S16 {
	return V3S16{X: f.s16(), Y: f.s16(), Z: f.s16()}
}

func (f *fieldReader) v2s32() V2S32 {
	return V2S32{X: f.s32(), Y: f.s32()}
}

func (f *fieldReader) v2u32() V2U32 {
	return V2U32{X: f.u32(), Y: f.u32()}
}

func (f *fieldReader) color() Color {
	return Color{R: f.u8(), G: f.u8(), B: f.u8(), A: f.u8()}
}

// Optional trailing fields: present only if bytes remain. These are only
// valid at the tail of a command.

func (f *fieldReader) more() bool {
	return f.err == nil && f.r.Remaining() > 0
}

func (f *fieldReader) optU8() *uint8 {
	if !f.more() {
		return nil
	}
	v := f.u8()
	return &v
}

func (f *fieldReader) optU16() *uint16 {
	if !f.more() {
		return nil
	}
	v := f.u16()
	return &v
}

func (f *fieldReader) optU32() *uint32 {
	if !f.more() {
		return nil
	}
	v := f.u32()
	return &v
}

func (f *fieldReader) optS16() *int16 {
	if !f.more() {
		return nil
	}
	v := f.s16()
	return &v
}

func (f *fieldReader) optF32() *float32 {
	if !f.more() {
		return nil
	}
	v := f.f32()
	return &v
}

func (f *fieldReader) optBool() *bool {
	if !f.more() {
		return nil
	}
	v := f.boolean()
	return &v
}

func (f *fieldReader) optStr() *string {
	if !f.more() {
		return nil
	}
	v := f.str()
	return &v
}

func (f *fieldReader) optV3F() *V3F {
	if !f.more() {
		return nil
	}
	v := f.v3f()
	return &v
}

func (f *fieldReader) optV2S32() *V2S32 {
	if !f.more() {
		return nil
	}
	v := f.v2s32()
	return &v
}

type fieldWriter struct {
	w   *wire.Writer
	err error
}

func (f *fieldWriter) u8(v uint8) {
	if f.err != nil {
		return
	}
	f.w.U8(v)
}

func (f *fieldWriter) u16(v uint16) {
	if f.err != nil {
		return
	}
	f.w.U16(v)
}

func (f *fieldWriter) u32(v uint32) {
	if f.err != nil {
		return
	}
	f.w.U32(v)
}

func (f *fieldWriter) u64(v uint64) {
	if f.err != nil {
		return
	}
	f.w.U64(v)
}

func (f *fieldWriter) s16(v int16) { f.u16(uint16(v)) }
func (f *fieldWriter) s32(v int32) { f.u32(uint32(v)) }

func (f *fieldWriter) f32(v float32) {
	if f.err != nil {
		return
	}
	f.w.F32(v)
}

func (f *fieldWriter) boolean(v bool) {
	if f.err != nil {
		return
	}
	f.w.Bool(v)
}

func (f *fieldWriter) str(v string) {
	if f.err != nil {
		return
	}
	f.err = f.w.String(v)
}

func (f *fieldWriter) longStr(v string) {
	if f.err != nil {
		return
	}
	f.err = f.w.LongString(v)
}

func (f *fieldWriter) wstr(v string) {
	if f.err != nil {
		return
	}
	f.err = f.w.WString(v)
}

func (f *fieldWriter) bytes16(v []byte) {
	if f.err != nil {
		return
	}
	f.err = f.w.Bytes16(v)
}

func (f *fieldWriter) bytes32(v []byte) {
	if f.err != nil {
		return
	}
	f.err = f.w.Bytes32(v)
}

func (f *fieldWriter) zlibBytes32(v []byte) {
	if f.err != nil {
		return
	}
	f.err = f.w.ZlibBytes32(v)
}

func (f *fieldWriter) raw(v []byte) {
	if f.err != nil {
		return
	}
	f.w.Raw(v)
}

func (f *fieldWriter) v2f(v V2F) {
	f.f32(v.X)
	f.f32(v.Y)
}

func (f *fieldWriter) v3f(v V3F) {
	f.f32(v.X)
	f.f32(v.Y)
	f.f32(v.Z)
}

func (f *fieldWriter) v3s16(v V3S16) {
	f.s16(v.X)
	f.s16(v.Y)
	f.s16(v.Z)
}

func (f *fieldWriter) v2s32(v V2S32) {
	f.s32(v.X)
	f.s32(v.Y)
}

func (f *fieldWriter) v2u32(v V2U32) {
	f.u32(v.X)
	f.u32(v.Y)
}

func (f *fieldWriter) color(v Color) {
	f.u8(v.R)
	f.u8(v.G)
	f.u8(v.B)
	f.u8(v.A)
}

func (f *fieldWriter) optU8(v *uint8) {
	if v != nil {
		f.u8(*v)
	}
}

func (f *fieldWriter) optU16(v *uint16) {
	if v != nil {
		f.u16(*v)
	}
}

func (f *fieldWriter) optU32(v *uint32) {
	if v != nil {
		f.u32(*v)
	}
}

func (f *fieldWriter) optS16(v *int16) {
	if v != nil {
		f.s16(*v)
	}
}

func (f *fieldWriter) optF32(v *float32) {
	if v != nil {
		f.f32(*v)
	}
}

func (f *fieldWriter) optBool(v *bool) {
	if v != nil {
		f.boolean(*v)
	}
}

func (f *fieldWriter) optStr(v *string) {
	if v != nil {
		f.str(*v)
	}
}

func (f *fieldWriter) optV3F(v *V3F) {
	if v != nil {
		f.v3f(*v)
	}
}

func (f *fieldWriter) optV2S32(v *V2S32) {
	if v != nil {
		f.v2s32(*v)
	}
}

// Count-prefixed arrays for the element shapes the command set needs.

func (f *fieldReader) strArray16() []string {
	n := f.u16()
	if f.err != nil {
		return nil
	}
	out := make([]string, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		out = append(out, f.str())
	}
	return out
}

func (f *fieldWriter) strArray16(vs []string) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d strings: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(vs)))
	for _, v := range vs {
		f.str(v)
	}
}

func (f *fieldReader) u16Array16() []uint16 {
	n := f.u16()
	if f.err != nil {
		return nil
	}
	out := make([]uint16, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		out = append(out, f.u16())
	}
	return out
}

func (f *fieldWriter) u16Array16(vs []uint16) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d values: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(vs)))
	for _, v := range vs {
		f.u16(v)
	}
}

func (f *fieldReader) formFields() []FormField {
	n := f.u16()
	if f.err != nil {
		return nil
	}
	out := make([]FormField, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		out = append(out, FormField{Name: f.str(), Value: f.longStr()})
	}
	return out
}

func (f *fieldWriter) formFields(vs []FormField) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d fields: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(vs)))
	for _, v := range vs {
		f.str(v.Name)
		f.longStr(v.Value)
	}
}

func (f *fieldReader) blockArray8() []V3S16 {
	n := f.u8()
	if f.err != nil {
		return nil
	}
	out := make([]V3S16, 0, n)
	for i := uint8(0); i < n && f.err == nil; i++ {
		out = append(out, f.v3s16())
	}
	return out
}

func (f *fieldWriter) blockArray8(vs []V3S16) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint8 {
		f.err = fmt.Errorf("array of %d blocks: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u8(uint8(len(vs)))
	for _, v := range vs {
		f.v3s16(v)
	}
}

func (f *fieldReader) u32Array8() []uint32 {
	n := f.u8()
	if f.err != nil {
		return nil
	}
	out := make([]uint32, 0, n)
	for i := uint8(0); i < n && f.err == nil; i++ {
		out = append(out, f.u32())
	}
	return out
}

func (f *fieldWriter) u32Array8(vs []uint32) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint8 {
		f.err = fmt.Errorf("array of %d values: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u8(uint8(len(vs)))
	for _, v := range vs {
		f.u32(v)
	}
}

func (f *fieldReader) s32Array16() []int32 {
	n := f.u16()
	if f.err != nil {
		return nil
	}
	out := make([]int32, 0, n)
	for i := uint16(0); i < n && f.err == nil; i++ {
		out = append(out, f.s32())
	}
	return out
}

func (f *fieldWriter) s32Array16(vs []int32) {
	if f.err != nil {
		return
	}
	if len(vs) > math.MaxUint16 {
		f.err = fmt.Errorf("array of %d values: %w", len(vs), wire.ErrValueTooLarge)
		return
	}
	f.u16(uint16(len(vs)))
	for _, v := range vs {
		f.s32(v)
	}
}
