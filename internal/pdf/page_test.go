package pdf

import (
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/fatura/internal/render"
)

func TestPage_Label(t *testing.T) {
	l := render.Label{AR: "مدفوعة", EN: "Paid"}

	unicode := &page{fonts: &FontSet{Family: "dejavu", Unicode: true}}
	assert.Equal(t, "مدفوعة / Paid", unicode.label(l))

	core := &page{fonts: DefaultFontSet()}
	assert.Equal(t, "Paid", core.label(l))
	assert.Equal(t, "#", core.label(render.Label{EN: "#"}))
}

func TestPage_Value(t *testing.T) {
	core := &page{fonts: DefaultFontSet()}
	status := render.Label{AR: "مدفوعة", EN: "Paid"}

	f := render.Field{Label: render.Label{AR: "الحالة", EN: "Status"}, Value: "Paid", ValueLabel: &status}
	assert.Equal(t, "Status: Paid", core.field(f))

	unicode := &page{fonts: &FontSet{Family: "dejavu", Unicode: true}}
	assert.Equal(t, "الحالة / Status: مدفوعة / Paid", unicode.field(f))

	plain := render.Field{Label: render.Label{EN: "Invoice No."}, Value: "INV-1"}
	assert.Equal(t, "INV-1", unicode.value(plain))
}

func TestPage_Order(t *testing.T) {
	a, b, c := col.New(1), col.New(2), col.New(3)

	ltr := &page{fonts: DefaultFontSet()}
	got := ltr.order(a, b, c)
	assert.Same(t, a, got[0])
	assert.Same(t, c, got[2])

	rtl := &page{fonts: &FontSet{Unicode: true}, rtl: true}
	got = rtl.order(a, b, c)
	assert.Same(t, c, got[0])
	assert.Same(t, b, got[1])
	assert.Same(t, a, got[2])
}
