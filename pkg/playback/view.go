package playback

import "github.com/aretw0/stepwise/pkg/domain"

// View is what a renderer shows for the current cursor position.
type View struct {
	Index     int                   `json:"index"`
	Len       int                   `json:"len"`
	Status    domain.PlaybackStatus `json:"status"`
	Step      *domain.Step          `json:"step,omitempty"`
	Highlight string                `json:"highlight,omitempty"`
	Variables domain.Variables      `json:"variables,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// viewAt derives the View from the trace and index alone.
func viewAt(tr *domain.Trace, index int, status domain.PlaybackStatus) View {
	v := View{Index: index, Len: tr.Len(), Status: status}
	st, ok := tr.At(index)
	if !ok {
		return v
	}
	v.Step = &st
	v.Highlight = st.Highlight
	v.Variables = st.Variables
	v.Message = st.Message
	return v
}
