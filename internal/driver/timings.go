package driver

import (
	"encoding/json"
	"fmt"

	"shroud/internal/diag"
	"shroud/internal/source"
)

type stageReport struct {
	Stage string  `json:"stage"`
	MS    float64 `json:"ms"`
}

type funcReport struct {
	Name string  `json:"name"`
	MS   float64 `json:"ms"`
}

type timingPayload struct {
	Kind    string        `json:"kind"`
	Path    string        `json:"path,omitempty"`
	Seed    int64         `json:"seed"`
	Cached  bool          `json:"cached,omitempty"`
	TotalMS float64       `json:"total_ms"`
	Stages  []stageReport `json:"stages"`
	Funcs   []funcReport  `json:"functions,omitempty"`
}

func timingPayloadFor(res *FileResult) timingPayload {
	payload := timingPayload{
		Kind:    "file",
		Path:    res.Path,
		Seed:    res.Seed,
		Cached:  res.Cached,
		TotalMS: ms(res.Timings.Sum()),
	}
	for _, stage := range Stages {
		if res.Timings.Has(stage) {
			payload.Stages = append(payload.Stages, stageReport{Stage: string(stage), MS: ms(res.Timings.Duration(stage))})
		}
	}
	for _, fs := range res.Funcs {
		payload.Funcs = append(payload.Funcs, funcReport{Name: fs.Name, MS: ms(fs.Elapsed)})
	}
	return payload
}

func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "file"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms, seed %d", payload.Kind, payload.TotalMS, payload.Seed)
	if payload.Cached {
		msg += " (cached)"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObfTimings, source.Span{File: file}, msg).
		WithNote(source.Span{File: file}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
