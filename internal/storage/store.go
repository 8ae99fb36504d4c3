package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// Store keeps one directory per run under baseDir, holding metadata.json
// and frames.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Step       float64            `json:"step"`
	FPS        float64            `json:"fps"`
	Duration   float64            `json:"duration"`
	Frames     int                `json:"frames"`
	Steps      int                `json:"steps"`
	Particles  int                `json:"particles"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Trajectory is the per-frame state of a run.
type Trajectory struct {
	Times  []float64
	States []dynamo.State
}

func (t *Trajectory) Append(time float64, x dynamo.State) {
	t.Times = append(t.Times, time)
	t.States = append(t.States, x.Clone())
}

func (t Trajectory) Len() int { return len(t.States) }

// Column extracts one scalar per frame for a particle: x, y, z, vx, vy or
// vz.
func (t Trajectory) Column(particle int, field string) ([]float64, error) {
	out := make([]float64, 0, len(t.States))
	for _, x := range t.States {
		if particle < 0 || particle >= x.Len() {
			return nil, fmt.Errorf("%w: particle %d", dynamo.ErrIndexOutOfRange, particle)
		}
		p, v := x.Positions[particle], x.Velocities[particle]
		var val float64
		switch field {
		case "x":
			val = p.X
		case "y":
			val = p.Y
		case "z":
			val = p.Z
		case "vx":
			val = v.X
		case "vy":
			val = v.Y
		case "vz":
			val = v.Z
		default:
			return nil, fmt.Errorf("unknown field %q (available: x, y, z, vx, vy, vz)", field)
		}
		out = append(out, val)
	}
	return out, nil
}

// FrameRecord is one particle at one frame, the row format of frames.csv.
type FrameRecord struct {
	Frame    int     `csv:"frame"`
	Time     float64 `csv:"time"`
	Particle int     `csv:"particle"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	VZ       float64 `csv:"vz"`
}

// Records flattens a trajectory into CSV rows.
func Records(traj Trajectory) []*FrameRecord {
	var out []*FrameRecord
	for f, x := range traj.States {
		for i := range x.Positions {
			p, v := x.Positions[i], x.Velocities[i]
			out = append(out, &FrameRecord{
				Frame: f, Time: traj.Times[f], Particle: i,
				X: p.X, Y: p.Y, Z: p.Z,
				VX: v.X, VY: v.Y, VZ: v.Z,
			})
		}
	}
	return out
}

// FromRecords rebuilds a trajectory. Records may arrive in any order but
// every frame must list the same particles.
func FromRecords(records []*FrameRecord) (Trajectory, error) {
	if len(records) == 0 {
		return Trajectory{}, nil
	}
	frames, particles := 0, 0
	for _, r := range records {
		if r.Frame < 0 || r.Particle < 0 {
			return Trajectory{}, fmt.Errorf("%w: frame %d particle %d", dynamo.ErrIndexOutOfRange, r.Frame, r.Particle)
		}
		frames = max(frames, r.Frame+1)
		particles = max(particles, r.Particle+1)
	}
	if len(records) != frames*particles {
		return Trajectory{}, fmt.Errorf("%w: %d records for %d frames of %d particles", dynamo.ErrDimensionMismatch, len(records), frames, particles)
	}

	traj := Trajectory{Times: make([]float64, frames), States: make([]dynamo.State, frames)}
	for f := range traj.States {
		traj.States[f] = dynamo.NewState(particles)
	}
	for _, r := range records {
		traj.Times[r.Frame] = r.Time
		traj.States[r.Frame].Positions[r.Particle] = r3.Vec{X: r.X, Y: r.Y, Z: r.Z}
		traj.States[r.Frame].Velocities[r.Particle] = r3.Vec{X: r.VX, Y: r.VY, Z: r.VZ}
	}
	return traj, nil
}

// Save writes a run and returns its ID. Empty ID and Timestamp fields are
// filled in.
func (s *Store) Save(meta RunMetadata, traj Trajectory) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Scene, meta.Timestamp.UnixNano())
	}
	meta.Frames = traj.Len()
	if traj.Len() > 0 {
		meta.Particles = traj.States[0].Len()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("writing metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	records := Records(traj)
	if len(records) == 0 {
		return meta.ID, nil
	}
	if err := gocsv.MarshalFile(&records, csvFile); err != nil {
		return "", fmt.Errorf("writing frames: %w", err)
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) (Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return Trajectory{}, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Trajectory{}, err
	}
	if info.Size() == 0 {
		return Trajectory{}, nil
	}

	var records []*FrameRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return Trajectory{}, fmt.Errorf("reading frames: %w", err)
	}
	return FromRecords(records)
}
