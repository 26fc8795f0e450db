package calendar

import (
	"testing"
)

func TestDetectProvider_ADE(t *testing.T) {
	detection := DetectProvider("-//ADE/version 6.0")

	if detection.Provider != ProviderADE {
		t.Errorf("Expected provider %s, got %s", ProviderADE, detection.Provider)
	}
	if !detection.IsADE {
		t.Error("Expected IsADE to be true")
	}
	if detection.IsHyperplanning {
		t.Error("Expected IsHyperplanning to be false")
	}
}

func TestDetectProvider_Hyperplanning(t *testing.T) {
	signatures := []string{
		"-//Index Education//Hyperplanning 2025//FR",
		"HYPERPLANNING",
	}

	for _, signature := range signatures {
		detection := DetectProvider(signature)
		if detection.Provider != ProviderHyperplanning {
			t.Errorf("Signature %q: expected provider %s, got %s", signature, ProviderHyperplanning, detection.Provider)
		}
		if !detection.IsHyperplanning {
			t.Errorf("Signature %q: expected IsHyperplanning to be true", signature)
		}
	}
}

func TestDetectProvider_Generic(t *testing.T) {
	signatures := []string{
		"-//Google Inc//Google Calendar 70.9054//EN",
		"-//Microsoft Corporation//Outlook 16.0 MIMEDIR//EN",
		"",
	}

	for _, signature := range signatures {
		detection := DetectProvider(signature)
		if detection.Provider != ProviderGeneric {
			t.Errorf("Signature %q: expected provider %s, got %s", signature, ProviderGeneric, detection.Provider)
		}
		if detection.IsADE || detection.IsHyperplanning {
			t.Errorf("Signature %q: expected no provider flags", signature)
		}
	}
}
