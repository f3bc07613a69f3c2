package gpu

import "sync"

// EventKind identifies a recorded draw-time call.
type EventKind int

// Recorded draw-time calls.
const (
	EventActiveTexture EventKind = iota
	EventBindTexture
	EventBindVertexArray
	EventDraw
)

// Event is one draw-time call seen by a Recorder.
type Event struct {
	Kind    EventKind
	Unit    uint32    // EventActiveTexture
	Texture TextureID // EventBindTexture
	VAO     uint32    // EventBindVertexArray
	Count   int32     // EventDraw
}

// Recorder is an in-memory Device. It validates and keeps every upload,
// hands out increasing handles and records draw-time calls in order.
// It backs headless tooling and tests.
type Recorder struct {
	mu sync.Mutex

	nextID   uint32
	textures map[TextureID]TextureDesc
	arrays   map[uint32]VertexData
	events   []Event

	textureUploads int
	arrayUploads   int
}

var _ Device = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		textures: make(map[TextureID]TextureDesc),
		arrays:   make(map[uint32]VertexData),
	}
}

func (r *Recorder) allocID() uint32 {
	r.nextID++
	return r.nextID
}

// NewTexture2D implements Device.
func (r *Recorder) NewTexture2D(desc TextureDesc) (TextureID, error) {
	if err := ValidateTexture(desc); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := TextureID(r.allocID())
	r.textures[id] = desc
	r.textureUploads++
	return id, nil
}

// DeleteTexture implements Device.
func (r *Recorder) DeleteTexture(id TextureID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.textures, id)
}

// NewVertexArray implements Device.
func (r *Recorder) NewVertexArray(data VertexData) (VertexArray, error) {
	if err := ValidateVertexData(data); err != nil {
		return VertexArray{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	va := VertexArray{
		VAO:        r.allocID(),
		VBO:        r.allocID(),
		EBO:        r.allocID(),
		IndexCount: int32(len(data.Indices)),
	}
	r.arrays[va.VAO] = data
	r.arrayUploads++
	return va, nil
}

// DeleteVertexArray implements Device.
func (r *Recorder) DeleteVertexArray(va VertexArray) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.arrays, va.VAO)
}

// ActiveTexture implements Device.
func (r *Recorder) ActiveTexture(unit uint32) {
	r.record(Event{Kind: EventActiveTexture, Unit: unit})
}

// BindTexture2D implements Device.
func (r *Recorder) BindTexture2D(id TextureID) {
	r.record(Event{Kind: EventBindTexture, Texture: id})
}

// BindVertexArray implements Device.
func (r *Recorder) BindVertexArray(vao uint32) {
	r.record(Event{Kind: EventBindVertexArray, VAO: vao})
}

// DrawTriangles implements Device.
func (r *Recorder) DrawTriangles(count int32) {
	r.record(Event{Kind: EventDraw, Count: count})
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Texture returns the description of a live texture.
func (r *Recorder) Texture(id TextureID) (TextureDesc, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desc, ok := r.textures[id]
	return desc, ok
}

// VertexArray returns the data of a live vertex array.
func (r *Recorder) VertexArray(vao uint32) (VertexData, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.arrays[vao]
	return data, ok
}

// LiveTextures returns the number of textures not yet deleted.
func (r *Recorder) LiveTextures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.textures)
}

// LiveVertexArrays returns the number of vertex arrays not yet deleted.
func (r *Recorder) LiveVertexArrays() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.arrays)
}

// TextureUploads returns the total number of successful texture uploads.
func (r *Recorder) TextureUploads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textureUploads
}

// VertexArrayUploads returns the total number of successful vertex array uploads.
func (r *Recorder) VertexArrayUploads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.arrayUploads
}

// Events returns a copy of the recorded draw-time calls.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ResetEvents clears the recorded draw-time calls.
func (r *Recorder) ResetEvents() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
