package carrier

// Box is the capability a box-packing library needs from a candidate
// shipping box: outer and inner dimensions, weight capacity, a
// reference id, and a price. The packing algorithm itself is external;
// this module only populates and reads these fields.
type Box interface {
	Reference() string
	OuterWidth() int
	OuterLength() int
	OuterDepth() int
	EmptyWeight() int
	InnerWidth() int
	InnerLength() int
	InnerDepth() int
	MaxWeight() int
	Price() float64
	Currency() string
}

// BoxSpec describes a shipping box. Inner dimensions default to the
// outer dimensions when zero, matching a box with negligible wall
// thickness.
type BoxSpec struct {
	Reference   string
	OuterWidth  int
	OuterLength int
	OuterDepth  int
	EmptyWeight int
	InnerWidth  int
	InnerLength int
	InnerDepth  int
	MaxWeight   int
	Type        string
	Price       float64
	Currency    string
}

// PackageBox is an immutable Box implementation built from a BoxSpec.
type PackageBox struct {
	spec BoxSpec
}

// NewPackageBox constructs a PackageBox, defaulting inner dimensions
// to the outer ones when unset.
func NewPackageBox(spec BoxSpec) *PackageBox {
	if spec.InnerWidth == 0 {
		spec.InnerWidth = spec.OuterWidth
	}
	if spec.InnerLength == 0 {
		spec.InnerLength = spec.OuterLength
	}
	if spec.InnerDepth == 0 {
		spec.InnerDepth = spec.OuterDepth
	}
	return &PackageBox{spec: spec}
}

func (b *PackageBox) Reference() string { return b.spec.Reference }
func (b *PackageBox) OuterWidth() int   { return b.spec.OuterWidth }
func (b *PackageBox) OuterLength() int  { return b.spec.OuterLength }
func (b *PackageBox) OuterDepth() int   { return b.spec.OuterDepth }
func (b *PackageBox) EmptyWeight() int  { return b.spec.EmptyWeight }
func (b *PackageBox) InnerWidth() int   { return b.spec.InnerWidth }
func (b *PackageBox) InnerLength() int  { return b.spec.InnerLength }
func (b *PackageBox) InnerDepth() int   { return b.spec.InnerDepth }
func (b *PackageBox) MaxWeight() int    { return b.spec.MaxWeight }
func (b *PackageBox) Type() string      { return b.spec.Type }
func (b *PackageBox) Price() float64    { return b.spec.Price }
func (b *PackageBox) Currency() string  { return b.spec.Currency }

var _ Box = (*PackageBox)(nil)
