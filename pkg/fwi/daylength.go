package fwi

// Effective day length for DMC, hours, by month.
var (
	dmcNorth    = [12]float64{6.5, 7.5, 9.0, 12.8, 13.9, 13.9, 12.4, 10.9, 9.4, 8.0, 7.0, 6.0}
	dmcTropicN  = [12]float64{7.9, 8.4, 8.9, 9.5, 9.9, 10.2, 10.1, 9.7, 9.1, 8.6, 8.1, 7.8}
	dmcTropicS  = [12]float64{10.1, 9.6, 9.1, 8.5, 8.1, 7.8, 7.9, 8.3, 8.9, 9.4, 9.9, 10.2}
	dmcSouth    = [12]float64{11.5, 10.5, 9.2, 7.9, 6.8, 6.2, 6.5, 7.4, 8.7, 10.0, 11.2, 11.8}
	dmcEquator  = 9.0
	dcNorth     = [12]float64{-1.6, -1.6, -1.6, 0.9, 3.8, 5.8, 6.4, 5.0, 2.4, 0.4, -1.6, -1.6}
	dcSouth     = [12]float64{6.4, 5.0, 2.4, 0.4, -1.6, -1.6, -1.6, -1.6, -1.6, 0.9, 3.8, 5.8}
	dcEquatorFL = 1.4
)

// dayLength returns the DMC day length adjusted to the latitude band.
func dayLength(month int, lat float64) float64 {
	i := month - 1
	switch {
	case lat > 30:
		return dmcNorth[i]
	case lat > 10:
		return dmcTropicN[i]
	case lat > -10:
		return dmcEquator
	case lat > -30:
		return dmcTropicS[i]
	default:
		return dmcSouth[i]
	}
}

// dayFactor returns the DC day length factor for the latitude band.
func dayFactor(month int, lat float64) float64 {
	i := month - 1
	switch {
	case lat > 20:
		return dcNorth[i]
	case lat > -20:
		return dcEquatorFL
	default:
		return dcSouth[i]
	}
}
