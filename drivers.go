package valico

var _ Producer = (*SliceProducer)(nil)

// SliceProducer writes a fixed slice of words, holding off whenever the
// FIFO reports full.
type SliceProducer struct {
	words []uint64
	next  int
}

// NewSliceProducer returns a producer over the given words.
func NewSliceProducer(words []uint64) *SliceProducer {
	return &SliceProducer{words: words}
}

// Drive implements the Producer interface.
func (sp *SliceProducer) Drive(full bool) (uint64, bool) {
	if full || sp.next >= len(sp.words) {
		return 0, false
	}

	// Not full at this edge, so the write is guaranteed to be accepted.
	word := sp.words[sp.next]
	sp.next++

	return word, true
}

// Exhausted states whether every word has been written.
func (sp *SliceProducer) Exhausted() bool {
	return sp.next >= len(sp.words)
}

var _ Consumer = (*SliceConsumer)(nil)

// SliceConsumer asserts the read enable on every edge and collects the
// dequeued words.
type SliceConsumer struct {
	words []uint64
}

// NewSliceConsumer returns an empty consumer.
func NewSliceConsumer() *SliceConsumer {
	return &SliceConsumer{}
}

// Ready implements the Consumer interface.
func (sc *SliceConsumer) Ready(empty bool) bool {
	return !empty
}

// Capture implements the Consumer interface.
func (sc *SliceConsumer) Capture(word uint64) {
	sc.words = append(sc.words, word)
}

// Words returns the captured words in dequeue order.
func (sc *SliceConsumer) Words() []uint64 {
	return sc.words
}
