package storage

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Times  []float64     `json:"times"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return WriteJSON(path, *meta, traj)
}

func WriteJSON(path string, meta RunMetadata, traj Trajectory) error {
	data := ExportData{
		Run:    meta,
		Times:  traj.Times,
		Frames: make([]ExportFrame, len(traj.States)),
	}
	for i, x := range traj.States {
		data.Frames[i] = ExportFrame{
			Positions:  triples(x.Positions),
			Velocities: triples(x.Velocities),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func triples(vs []r3.Vec) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}
