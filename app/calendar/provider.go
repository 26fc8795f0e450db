package calendar

import (
	"strings"
)

// Detection is the result of classifying a feed by its PRODID signature.
type Detection struct {
	Provider        Provider
	IsADE           bool
	IsHyperplanning bool
}

// DetectProvider classifies a feed by the product signature found in its
// PRODID header. Classification is a pure substring match over known
// signatures; anything unmatched yields ProviderGeneric. It never fails.
//
// Known signatures:
//   - ADE (Adesoft timetabling), e.g. "-//ADE/version 6.0"
//   - Hyperplanning (Index Education), e.g. "-//Index Education//Hyperplanning"
func DetectProvider(productSignature string) Detection {
	sig := strings.ToLower(productSignature)

	switch {
	case strings.Contains(sig, "ade/"), strings.Contains(sig, "adesoft"):
		return Detection{Provider: ProviderADE, IsADE: true}
	case strings.Contains(sig, "hyperplanning"), strings.Contains(sig, "index education"):
		return Detection{Provider: ProviderHyperplanning, IsHyperplanning: true}
	default:
		return Detection{Provider: ProviderGeneric}
	}
}
