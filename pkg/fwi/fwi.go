// Package fwi computes the Canadian Forest Fire Weather Index System
// (Van Wagner, 1987) from daily noon weather.
//
// Wind speed is expected in km/h by component functions. Enrich takes
// meteo records with wind in m/s and converts it.
package fwi

import "math"

// Codes are the moisture codes carried from one day to the next.
type Codes struct {
	FFMC, DMC, DC float64
}

// StartCodes are the standard values used for the first day of a series.
var StartCodes = Codes{FFMC: 85, DMC: 6, DC: 15}

// FFMC returns the Fine Fuel Moisture Code.
// temp is Celsius, hum is percent, wind is km/h, rain is mm.
func FFMC(prev, temp, hum, wind, rain float64) float64 {
	mo := 147.2 * (101 - prev) / (59.5 + prev)

	if rain > 0.5 {
		rf := rain - 0.5
		wet := 42.5 * rf * math.Exp(-100/(251-mo)) * (1 - math.Exp(-6.93/rf))
		if mo > 150 {
			wet += 0.0015 * math.Pow(mo-150, 2) * math.Sqrt(rf)
		}
		mo = math.Min(mo+wet, 250)
	}

	ed := 0.942*math.Pow(hum, 0.679) + 11*math.Exp((hum-100)/10) +
		0.18*(21.1-temp)*(1-math.Exp(-0.115*hum))

	m := mo
	switch {
	case mo > ed:
		kl := 0.424*(1-math.Pow(hum/100, 1.7)) +
			0.0694*math.Sqrt(wind)*(1-math.Pow(hum/100, 8))
		kw := kl * 0.581 * math.Exp(0.0365*temp)
		m = ed + (mo-ed)/math.Pow(10, kw)
	case mo < ed:
		ew := 0.618*math.Pow(hum, 0.753) + 10*math.Exp((hum-100)/10) +
			0.18*(21.1-temp)*(1-math.Exp(-0.115*hum))
		if mo < ew {
			kl := 0.424*(1-math.Pow((100-hum)/100, 1.7)) +
				0.0694*math.Sqrt(wind)*(1-math.Pow((100-hum)/100, 8))
			kw := kl * 0.581 * math.Exp(0.0365*temp)
			m = ew - (ew-mo)/math.Pow(10, kw)
		}
	}

	res := 59.5 * (250 - m) / (147.2 + m)
	return math.Max(0, math.Min(res, 101))
}

// DMC returns the Duff Moisture Code. month is 1-12.
func DMC(prev, temp, hum, rain float64, month int, lat float64) float64 {
	temp = math.Max(temp, -1.1)
	rk := 1.894 * (temp + 1.1) * (100 - hum) * dayLength(month, lat) * 1e-4

	pr := prev
	if rain > 1.5 {
		re := 0.92*rain - 1.27
		mo := 20 + math.Exp(5.6348-prev/43.43)
		var b float64
		switch {
		case prev <= 33:
			b = 100 / (0.5 + 0.3*prev)
		case prev <= 65:
			b = 14 - 1.3*math.Log(prev)
		default:
			b = 6.2*math.Log(prev) - 17.2
		}
		mr := mo + 1000*re/(48.77+b*re)
		pr = math.Max(0, 244.72-43.43*math.Log(mr-20))
	}

	return math.Max(0, pr+rk)
}

// DC returns the Drought Code. month is 1-12.
func DC(prev, temp, rain float64, month int, lat float64) float64 {
	temp = math.Max(temp, -2.8)
	pe := math.Max(0, (0.36*(temp+2.8)+dayFactor(month, lat))/2)

	dr := prev
	if rain > 2.8 {
		rd := 0.83*rain - 1.27
		qo := 800 * math.Exp(-prev/400)
		qr := qo + 3.937*rd
		dr = math.Max(0, 400*math.Log(800/qr))
	}

	return math.Max(0, dr+pe)
}

// ISI returns the Initial Spread Index. wind is km/h.
func ISI(ffmc, wind float64) float64 {
	fm := 147.2 * (101 - ffmc) / (59.5 + ffmc)
	sf := 91.9 * math.Exp(-0.1386*fm) * (1 + math.Pow(fm, 5.31)/4.93e7)
	return 0.208 * math.Exp(0.05039*wind) * sf
}

// BUI returns the Buildup Index.
func BUI(dmc, dc float64) float64 {
	if dmc == 0 && dc == 0 {
		return 0
	}
	var res float64
	if dmc <= 0.4*dc {
		res = 0.8 * dmc * dc / (dmc + 0.4*dc)
	} else {
		res = dmc - (1-0.8*dc/(dmc+0.4*dc))*(0.92+math.Pow(0.0114*dmc, 1.7))
	}
	return math.Max(0, res)
}

// FWI returns the Fire Weather Index.
func FWI(isi, bui float64) float64 {
	var fd float64
	if bui <= 80 {
		fd = 0.626*math.Pow(bui, 0.809) + 2
	} else {
		fd = 1000 / (25 + 108.64*math.Exp(-0.023*bui))
	}
	bb := 0.1 * isi * fd
	if bb <= 1 {
		return bb
	}
	return math.Exp(2.72 * math.Pow(0.434*math.Log(bb), 0.647))
}
