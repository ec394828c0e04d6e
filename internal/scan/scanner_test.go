package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanSrc(t *testing.T, src string) *File {
	t.Helper()
	return Scan("mod_a/src/lib.rs", strings.Split(src, "\n"))
}

func TestScanNamedAggregate(t *testing.T) {
	f := scanSrc(t, `
pub struct Widget {
    pub id: u64,
    pub(crate) label: String,
    hidden: bool,
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.Equal(t, KindAggregate, d.Kind)
	assert.Equal(t, "Widget", d.Name)
	assert.Equal(t, VisibilityPublic, d.Visibility)
	assert.Equal(t, 2, d.Line)
	assert.False(t, d.Tuple)

	require.Len(t, d.Children, 3)
	assert.Equal(t, "id", d.Children[0].Name)
	assert.Equal(t, VisibilityPublic, d.Children[0].Visibility)
	assert.Equal(t, "u64", d.Children[0].Type)
	assert.Equal(t, VisibilityUnit, d.Children[1].Visibility)
	assert.Equal(t, VisibilityPrivate, d.Children[2].Visibility)
	assert.Equal(t, 5, d.Children[2].Line)
}

func TestScanTupleAggregate(t *testing.T) {
	f := scanSrc(t, `pub(crate) struct Pair(pub u32, String);`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.True(t, d.Tuple)
	assert.Equal(t, VisibilityUnit, d.Visibility)

	require.Len(t, d.Children, 2)
	assert.Equal(t, ChildSlot, d.Children[0].Kind)
	assert.Equal(t, "0", d.Children[0].Name)
	assert.Equal(t, VisibilityPublic, d.Children[0].Visibility)
	assert.Equal(t, "u32", d.Children[0].Type)
	assert.Equal(t, VisibilityPrivate, d.Children[1].Visibility)
}

func TestScanUnitAggregateHasNoChildren(t *testing.T) {
	f := scanSrc(t, `struct Marker;`)
	require.Len(t, f.Decls, 1)
	assert.Empty(t, f.Decls[0].Children)
	assert.False(t, f.Decls[0].Tuple)
}

func TestScanModifierParensAreNotSlots(t *testing.T) {
	// The modifier's own parens must never be read as a slot list.
	f := scanSrc(t, `pub(crate) struct Marker;`)
	require.Len(t, f.Decls, 1)
	assert.False(t, f.Decls[0].Tuple)
	assert.Empty(t, f.Decls[0].Children)
	assert.Equal(t, VisibilityUnit, f.Decls[0].Visibility)
}

func TestScanMultiLineHeader(t *testing.T) {
	f := scanSrc(t, `
pub struct Grid<T>
where
    T: Clone,
{
    cells: Vec<T>,
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.Equal(t, "Grid", d.Name)
	assert.Equal(t, 2, d.Line)
	require.Len(t, d.Children, 1)
	assert.Equal(t, "cells", d.Children[0].Name)
}

func TestScanDepthOneAttributionOnly(t *testing.T) {
	// The closure braces inside the field type must not produce siblings.
	f := scanSrc(t, `
pub struct Holder {
    pub handler: Box<dyn Fn() -> Out {
        inner: u8,
    }>,
    pub tail: u8,
}
`)
	require.Len(t, f.Decls, 1)
	names := []string{}
	for _, c := range f.Decls[0].Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"handler", "tail"}, names)
}

func TestScanEnumVariants(t *testing.T) {
	f := scanSrc(t, `
pub enum Mode {
    Fast,
    Careful(u32),
    Custom { depth: u8 },
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.Equal(t, KindEnumeration, d.Kind)
	require.Len(t, d.Children, 3)
	assert.Equal(t, "Fast", d.Children[0].Name)
	assert.Equal(t, "Careful", d.Children[1].Name)
	assert.Equal(t, "Custom", d.Children[2].Name)
	assert.Equal(t, ChildVariant, d.Children[0].Kind)
}

func TestScanInlineEnum(t *testing.T) {
	f := scanSrc(t, `enum Tiny { A, B }`)
	require.Len(t, f.Decls, 1)
	require.Len(t, f.Decls[0].Children, 2)
	assert.Equal(t, "A", f.Decls[0].Children[0].Name)
	assert.Equal(t, "B", f.Decls[0].Children[1].Name)
}

func TestScanInherentImplBlock(t *testing.T) {
	f := scanSrc(t, `
impl Widget {
    pub(crate) fn new(id: u64) -> Self {
        Self { id }
    }

    fn internal(&self) {}
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.Equal(t, KindImplBlock, d.Kind)
	assert.True(t, d.Inherent())
	assert.Equal(t, "Widget", d.ForType)

	require.Len(t, d.Children, 2)
	assert.Equal(t, "new", d.Children[0].Name)
	assert.Equal(t, VisibilityUnit, d.Children[0].Visibility)
	assert.Equal(t, ChildMethod, d.Children[0].Kind)
	assert.Equal(t, "internal", d.Children[1].Name)
	assert.Equal(t, VisibilityPrivate, d.Children[1].Visibility)
}

func TestScanTraitImplBlock(t *testing.T) {
	f := scanSrc(t, `
impl fmt::Display for Widget {
    fn fmt(&self, f: &mut fmt::Formatter<'_>) -> fmt::Result {
        write!(f, "widget")
    }
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.False(t, d.Inherent())
	assert.Equal(t, "Display", d.TraitName)
	assert.Equal(t, "Widget", d.ForType)
	require.Len(t, d.Children, 1)
	assert.Equal(t, "fmt", d.Children[0].Name)
}

func TestScanGenericImplBlock(t *testing.T) {
	f := scanSrc(t, `
impl<T: Clone> Container<T> {
    pub fn get(&self) -> T { self.value.clone() }
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.True(t, d.Inherent())
	assert.Equal(t, "Container", d.ForType)
}

func TestScanTraitMethods(t *testing.T) {
	f := scanSrc(t, `
pub trait Renderer {
    fn render(&self) -> String;
    fn refresh_interval(&self) -> Option<Duration>;
}
`)
	require.Len(t, f.Decls, 1)
	d := f.Decls[0]
	assert.Equal(t, KindInterface, d.Kind)
	require.Len(t, d.Children, 2)
	assert.Contains(t, d.Children[1].Header, "Option<Duration>")
}

func TestScanMultiLineMethodHeader(t *testing.T) {
	f := scanSrc(t, `
impl Widget {
    pub fn configure(
        self,
        label: String,
    ) -> Widget {
        self
    }
}
`)
	require.Len(t, f.Decls, 1)
	require.Len(t, f.Decls[0].Children, 1)
	c := f.Decls[0].Children[0]
	assert.Equal(t, "configure", c.Name)
	assert.Equal(t, 3, c.Line)
	assert.Contains(t, c.Header, "label: String")
}

func TestScanFunctionDeclaration(t *testing.T) {
	f := scanSrc(t, `
pub(super) fn helper(x: u32) -> u32 {
    let nested = |v: u32| { v + 1 };
    nested(x)
}

struct After;
`)
	require.Len(t, f.Decls, 2)
	assert.Equal(t, KindFunction, f.Decls[0].Kind)
	assert.Equal(t, "helper", f.Decls[0].Name)
	assert.Equal(t, VisibilityModule, f.Decls[0].Visibility)
	assert.Equal(t, "After", f.Decls[1].Name)
}

func TestScanIgnoresNestedDeclarations(t *testing.T) {
	f := scanSrc(t, `
fn outer() {
    struct Local {
        x: u8,
    }
}
`)
	require.Len(t, f.Decls, 1)
	assert.Equal(t, "outer", f.Decls[0].Name)
}

func TestScanCommentedDeclarationIgnored(t *testing.T) {
	f := scanSrc(t, `
// pub struct Ghost { pub flag: bool }
/* struct AlsoGhost; */
struct Real;
`)
	require.Len(t, f.Decls, 1)
	assert.Equal(t, "Real", f.Decls[0].Name)
	assert.Equal(t, 4, f.Decls[0].Line)
}

func TestVisibilityOrderingIsTotal(t *testing.T) {
	rungs := []Visibility{VisibilityPrivate, VisibilityModule, VisibilityUnit, VisibilityPublic}
	for i := 0; i < len(rungs); i++ {
		for j := 0; j < len(rungs); j++ {
			if i < j {
				assert.Less(t, int(rungs[i]), int(rungs[j]))
			}
		}
	}
}

func TestParseVisibilitySpellings(t *testing.T) {
	cases := map[string]Visibility{
		"private":    VisibilityPrivate,
		"pub(super)": VisibilityModule,
		"pub(crate)": VisibilityUnit,
		"pub":        VisibilityPublic,
	}
	for spelling, want := range cases {
		got, ok := ParseVisibility(spelling)
		require.True(t, ok, spelling)
		assert.Equal(t, want, got)
		assert.Equal(t, spelling, got.String())
	}

	_, ok := ParseVisibility("protected")
	assert.False(t, ok)
}

func TestTypeDeclLookup(t *testing.T) {
	f := scanSrc(t, `
pub struct Widget { id: u64 }
pub enum Mode { A }
fn widget() {}
`)
	require.NotNil(t, f.TypeDecl("Widget"))
	require.NotNil(t, f.TypeDecl("Mode"))
	assert.Nil(t, f.TypeDecl("widget"))
	assert.Nil(t, f.TypeDecl("Missing"))
}
