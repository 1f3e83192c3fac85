package utils

import (
	"math"
)

func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return haversineDistance(lat1, lon1, lat2, lon2)
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

func EstimateDurationHours(distanceKM float64, averageSpeedKMH float64) float64 {
	if averageSpeedKMH <= 0 {
		averageSpeedKMH = 30 // city default
	}
	return distanceKM / averageSpeedKMH
}

// RoundMoney rounds to the nearest whole currency unit. Settlement share
// splits subtract the rounded driver share from the total so the two shares
// always sum exactly.
func RoundMoney(amount float64) float64 {
	return math.Round(amount)
}
