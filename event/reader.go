package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go-hep.org/x/hep/fmom"
	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hhana/truth"
)

// ErrBadMomentum is returned for four-momenta that are neither
// [px, py, pz, e] nor {pt, eta, phi, m}.
var ErrBadMomentum = errors.New("event: malformed four-momentum")

// Reader decodes a stream of YAML (or JSON) documents, one event per
// document.
type Reader struct {
	closer io.Closer
	dec    *yaml.Decoder
	nread  int
	err    error
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: yaml.NewDecoder(r)}
}

// Next decodes the next event. It returns io.EOF after the last one.
func (r *Reader) Next() (*Event, error) {
	var w wireEvent
	if err := r.dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode event %d: %w", r.nread, err)
	}
	r.nread++
	return w.event(), nil
}

// ScanEvents streams events until the input is exhausted, a decoding error
// occurs or ctx is done. Err reports the decoding error, if any, once the
// channel is closed.
func (r *Reader) ScanEvents(ctx context.Context) <-chan *Event {
	events := make(chan *Event)
	go func() {
		defer close(events)
		for {
			ev, err := r.Next()
			if err != nil {
				if err != io.EOF {
					r.err = err
				}
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

type momentum fmom.PxPyPzE

func (m *momentum) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var v []float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		if len(v) != 4 {
			return fmt.Errorf("%w: line %d: want [px, py, pz, e], got %d components", ErrBadMomentum, node.Line, len(v))
		}
		*m = momentum(fmom.NewPxPyPzE(v[0], v[1], v[2], v[3]))
	case yaml.MappingNode:
		var v struct {
			Pt  float64 `yaml:"pt"`
			Eta float64 `yaml:"eta"`
			Phi float64 `yaml:"phi"`
			M   float64 `yaml:"m"`
		}
		if err := node.Decode(&v); err != nil {
			return err
		}
		p := fmom.NewPtEtaPhiM(v.Pt, v.Eta, v.Phi, v.M)
		*m = momentum(fmom.NewPxPyPzE(p.Px(), p.Py(), p.Pz(), p.E()))
	default:
		return fmt.Errorf("%w: line %d", ErrBadMomentum, node.Line)
	}
	return nil
}

type wireLepton struct {
	P4     momentum        `yaml:"p4"`
	Charge int             `yaml:"charge"`
	IDs    map[string]bool `yaml:"ids"`
	RelIso float64         `yaml:"rel_iso"`
	GenP4  momentum        `yaml:"gen_p4"`
}

type wireJet struct {
	P4    momentum           `yaml:"p4"`
	BTag  map[string]float64 `yaml:"btag"`
	GenP4 momentum           `yaml:"gen_p4"`
}

type wireGenParticle struct {
	P4      momentum `yaml:"p4"`
	PdgID   int      `yaml:"pdg_id"`
	Flags   uint16   `yaml:"flags"`
	Mothers []int    `yaml:"mothers,flow"`
}

type wireEvent struct {
	Run          uint32            `yaml:"run"`
	Lumi         uint32            `yaml:"lumi"`
	Number       uint64            `yaml:"event"`
	IsRealData   bool              `yaml:"is_real_data"`
	Electrons    []wireLepton      `yaml:"electrons"`
	Muons        []wireLepton      `yaml:"muons"`
	Jets         []wireJet         `yaml:"jets"`
	MET          momentum          `yaml:"met"`
	GenParticles []wireGenParticle `yaml:"gen_particles"`
	Triggers     []string          `yaml:"triggers"`
}

func (w *wireEvent) event() *Event {
	ev := &Event{
		Run:        w.Run,
		Lumi:       w.Lumi,
		Number:     w.Number,
		IsRealData: w.IsRealData,
		MET:        MET{P4: fmom.PxPyPzE(w.MET)},
		Triggers:   w.Triggers,
	}
	for _, l := range w.Electrons {
		ev.Electrons = append(ev.Electrons, Electron{
			P4:     fmom.PxPyPzE(l.P4),
			Charge: l.Charge,
			IDs:    l.IDs,
			RelIso: l.RelIso,
			GenP4:  fmom.PxPyPzE(l.GenP4),
		})
	}
	for _, l := range w.Muons {
		ev.Muons = append(ev.Muons, Muon{
			P4:     fmom.PxPyPzE(l.P4),
			Charge: l.Charge,
			IDs:    l.IDs,
			RelIso: l.RelIso,
			GenP4:  fmom.PxPyPzE(l.GenP4),
		})
	}
	for _, j := range w.Jets {
		ev.Jets = append(ev.Jets, Jet{
			P4:    fmom.PxPyPzE(j.P4),
			BTag:  j.BTag,
			GenP4: fmom.PxPyPzE(j.GenP4),
		})
	}
	for _, p := range w.GenParticles {
		ev.GenParticles = append(ev.GenParticles, truth.Particle{
			P4:      fmom.PxPyPzE(p.P4),
			PdgID:   p.PdgID,
			Flags:   truth.StatusFlags(p.Flags),
			Mothers: p.Mothers,
		})
	}
	return ev
}
