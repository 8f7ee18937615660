package export

import (
	"context"

	"github.com/alexstoesslein/silence-cutter/internal/mediaengine"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// RenderCut dispatches the edit list's source intervals, in timeline
// order, to the media engine's render_cut operation (spec.md §4.H).
func RenderCut(ctx context.Context, engine *mediaengine.Adapter, handle *mediaengine.Handle, edit *model.EditList, progress mediaengine.ProgressFunc) ([]byte, string, error) {
	intervals := make([][2]float64, 0, len(edit.Timeline))
	for _, entry := range edit.Timeline {
		intervals = append(intervals, [2]float64{entry.SourceStart, entry.SourceEnd})
	}
	return engine.RenderCut(ctx, handle, intervals, progress)
}
