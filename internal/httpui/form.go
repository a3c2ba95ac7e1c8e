package httpui

import (
	"net/url"
	"strconv"
	"strings"

	"labnotebook/internal/controller"
	"labnotebook/pkg/domain"
)

func payloadFromForm(f url.Values) controller.FormPayload {
	return controller.FormPayload{
		ID:           f.Get("id"),
		Title:        f.Get("title"),
		Date:         f.Get("date"),
		Experimenter: f.Get("experimenter"),
		Type:         f.Get("type"),
		Purpose:      f.Get("purpose"),
		Conditions: domain.Conditions{
			Temperature: f.Get("cond_" + string(domain.ConditionTemperature)),
			Duration:    f.Get("cond_" + string(domain.ConditionDuration)),
			Medium:      f.Get("cond_" + string(domain.ConditionMedium)),
			Instrument:  f.Get("cond_" + string(domain.ConditionInstrument)),
			Other:       f.Get("cond_" + string(domain.ConditionOther)),
		},
		Steps:       f["steps"],
		Results:     f.Get("results"),
		Conclusion:  f.Get("conclusion"),
		Notes:       f.Get("notes"),
		Attachments: f["attachments"],
	}
}

// removeAction parses a "remove_step:<i>" or "remove_attachment:<i>" button
// value.
func removeAction(action string) (controller.Row, int, bool) {
	kind, idx, ok := strings.Cut(action, ":")
	if !ok {
		return "", 0, false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return "", 0, false
	}
	switch kind {
	case "remove_step":
		return controller.RowStep, i, true
	case "remove_attachment":
		return controller.RowAttachment, i, true
	}
	return "", 0, false
}
