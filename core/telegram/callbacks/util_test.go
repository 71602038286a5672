package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		name        string
		cb          *tele.Callback
		wantUnique  string
		wantPayload string
		wantData    string
	}{
		{name: "nil", cb: nil},
		{name: "raw", cb: &tele.Callback{Data: "Next"}, wantPayload: "Next", wantData: "Next"},
		{name: "encoded", cb: &tele.Callback{Data: "\fmenu|Back"}, wantUnique: "menu", wantPayload: "Back", wantData: "Back"},
		{name: "unique only", cb: &tele.Callback{Data: "\fmenu"}, wantUnique: "menu", wantData: "menu"},
		{name: "already split", cb: &tele.Callback{Unique: "menu", Data: "Next"}, wantUnique: "menu", wantPayload: "Next", wantData: "Next"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, payload := ParseCallbackData(tt.cb)
			assert.Equal(t, tt.wantUnique, unique)
			assert.Equal(t, tt.wantPayload, payload)
			assert.Equal(t, tt.wantData, Data(tt.cb))
		})
	}
}
