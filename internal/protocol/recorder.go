package protocol

// Recorder is an in-memory Resource that keeps every delivery.
type Recorder struct {
	client     ClientID
	destroyed  bool
	deliveries []Delivery

	// OnDelivery, if set, is called after each delivery is recorded.
	OnDelivery func(Delivery)
}

// NewRecorder creates a live recorder for client.
func NewRecorder(client ClientID) *Recorder {
	return &Recorder{client: client}
}

func (r *Recorder) Client() ClientID { return r.client }
func (r *Recorder) Alive() bool      { return !r.destroyed }

// Destroy marks the resource as gone; later posts are dropped.
func (r *Recorder) Destroy() { r.destroyed = true }

// Deliveries returns a copy of everything recorded so far.
func (r *Recorder) Deliveries() []Delivery {
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Reset forgets recorded deliveries.
func (r *Recorder) Reset() { r.deliveries = r.deliveries[:0] }

func (r *Recorder) Enter(time uint32, surface uint32, sx, sy float64) {
	r.record(Delivery{Kind: KindEnter, Time: time, Surface: surface, SX: sx, SY: sy})
}

func (r *Recorder) Leave(time uint32, surface uint32) {
	r.record(Delivery{Kind: KindLeave, Time: time, Surface: surface})
}

func (r *Recorder) Motion(time uint32, x, y, sx, sy float64) {
	r.record(Delivery{Kind: KindMotion, Time: time, X: x, Y: y, SX: sx, SY: sy})
}

func (r *Recorder) Button(time uint32, button uint32, pressed bool) {
	r.record(Delivery{Kind: KindButton, Time: time, Code: button, Pressed: pressed})
}

func (r *Recorder) Key(time uint32, key uint32, pressed bool) {
	r.record(Delivery{Kind: KindKey, Time: time, Code: key, Pressed: pressed})
}

func (r *Recorder) record(d Delivery) {
	if r.destroyed {
		return
	}
	d.Client = r.client
	r.deliveries = append(r.deliveries, d)
	if r.OnDelivery != nil {
		r.OnDelivery(d)
	}
}
