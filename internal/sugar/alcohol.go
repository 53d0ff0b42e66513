package sugar

// AlcoholByVolumeStandard estimates percent ABV from original and final
// specific gravity with the common homebrew approximation.
func AlcoholByVolumeStandard(og, fg float64) float64 {
	return (og - fg) * 131.25
}

// AlcoholByVolumeAlternative is more accurate than the standard formula for
// high gravity beers.
func AlcoholByVolumeAlternative(og, fg float64) float64 {
	return (76.08 * (og - fg) / (1.775 - og)) * (fg / 0.794)
}

// AlcoholByWeight converts percent ABV to percent ABW.
func AlcoholByWeight(abv float64) float64 {
	return abv * 0.79336
}
