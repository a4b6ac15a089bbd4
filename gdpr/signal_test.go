package gdpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalParse(t *testing.T) {
	tests := []struct {
		description string
		rawSignal   string
		wantSignal  Signal
		wantError   bool
	}{
		{
			description: "valid signal - zero",
			rawSignal:   "0",
			wantSignal:  SignalNo,
			wantError:   false,
		},
		{
			description: "valid signal - one",
			rawSignal:   "1",
			wantSignal:  SignalYes,
			wantError:   false,
		},
		{
			description: "valid signal - surrounded by whitespace",
			rawSignal:   "  1  ",
			wantSignal:  SignalYes,
			wantError:   false,
		},
		{
			description: "empty signal",
			rawSignal:   "",
			wantSignal:  SignalAmbiguous,
			wantError:   false,
		},
		{
			description: "whitespace only signal",
			rawSignal:   "   ",
			wantSignal:  SignalAmbiguous,
			wantError:   false,
		},
		{
			description: "invalid signal - out of range",
			rawSignal:   "2",
			wantSignal:  SignalAmbiguous,
			wantError:   true,
		},
		{
			description: "invalid signal - negative",
			rawSignal:   "-1",
			wantSignal:  SignalAmbiguous,
			wantError:   true,
		},
		{
			description: "invalid signal - not an integer",
			rawSignal:   "yes",
			wantSignal:  SignalAmbiguous,
			wantError:   true,
		},
	}

	for _, test := range tests {
		signal, err := SignalParse(test.rawSignal)

		assert.Equal(t, test.wantSignal, signal, test.description)
		if test.wantError {
			assert.Error(t, err, test.description)
		} else {
			assert.NoError(t, err, test.description)
		}
	}
}

func TestSignalNormalize(t *testing.T) {
	tests := []struct {
		description  string
		signal       Signal
		defaultValue string
		wantSignal   Signal
	}{
		{
			description:  "explicit yes is unchanged regardless of default",
			signal:       SignalYes,
			defaultValue: "0",
			wantSignal:   SignalYes,
		},
		{
			description:  "explicit no is unchanged regardless of default",
			signal:       SignalNo,
			defaultValue: "1",
			wantSignal:   SignalNo,
		},
		{
			description:  "ambiguous with default zero",
			signal:       SignalAmbiguous,
			defaultValue: "0",
			wantSignal:   SignalNo,
		},
		{
			description:  "ambiguous with default one",
			signal:       SignalAmbiguous,
			defaultValue: "1",
			wantSignal:   SignalYes,
		},
	}

	for _, test := range tests {
		signal := SignalNormalize(test.signal, test.defaultValue)

		assert.Equal(t, test.wantSignal, signal, test.description)
	}
}
