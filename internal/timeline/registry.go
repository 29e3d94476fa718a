package timeline

import "github.com/tOgg1/emitline/internal/models"

// block is everything drawn for one emission.
type block struct {
	emission *models.Emission

	rect      Element
	name      Element
	time      Element
	separator Element

	rectBaseX float64
	nameBaseX float64
	timeBaseX float64

	// committedOffsetMs is the offset the block's current position reflects.
	committedOffsetMs int64

	drag dragState
}

func (b *block) translate(dx float64) {
	b.rect.Set(AttrTranslateX, dx)
	b.name.Set(AttrTranslateX, dx)
	b.time.Set(AttrTranslateX, dx)
}

func (b *block) remove() {
	b.rect.Remove()
	b.name.Remove()
	b.time.Remove()
	b.separator.Remove()
}

// registry owns the blocks of the active set, keyed by emission identity.
type registry struct {
	order  []*models.Emission
	blocks map[*models.Emission]*block
}

func newRegistry() *registry {
	return &registry{blocks: make(map[*models.Emission]*block)}
}

func (r *registry) add(b *block) {
	r.order = append(r.order, b.emission)
	r.blocks[b.emission] = b
}

func (r *registry) get(e *models.Emission) (*block, bool) {
	b, ok := r.blocks[e]
	return b, ok
}

// each visits blocks in row order.
func (r *registry) each(fn func(*block)) {
	for _, e := range r.order {
		fn(r.blocks[e])
	}
}

func (r *registry) len() int {
	return len(r.order)
}

func (r *registry) clear() {
	r.each(func(b *block) { b.remove() })
	r.order = r.order[:0]
	r.blocks = make(map[*models.Emission]*block)
}
