package httpui

import (
	"labnotebook/internal/controller"
	"labnotebook/pkg/domain"
)

func findRecord(ctl *controller.Controller, id string) (domain.Record, bool) {
	for _, r := range ctl.Records() {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Record{}, false
}
