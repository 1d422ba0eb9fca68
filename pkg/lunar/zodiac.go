package lunar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ZodiacSign is one of the twelve tropical zodiac signs
type ZodiacSign string

const (
	Aries       ZodiacSign = "Aries"
	Taurus      ZodiacSign = "Taurus"
	Gemini      ZodiacSign = "Gemini"
	Cancer      ZodiacSign = "Cancer"
	Leo         ZodiacSign = "Leo"
	Virgo       ZodiacSign = "Virgo"
	Libra       ZodiacSign = "Libra"
	Scorpio     ZodiacSign = "Scorpio"
	Sagittarius ZodiacSign = "Sagittarius"
	Capricorn   ZodiacSign = "Capricorn"
	Aquarius    ZodiacSign = "Aquarius"
	Pisces      ZodiacSign = "Pisces"
)

// ZodiacSigns lists the signs in bucket order
var ZodiacSigns = [12]ZodiacSign{
	Aries, Taurus, Gemini, Cancer, Leo, Virgo,
	Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces,
}

func (z ZodiacSign) String() string {
	return string(z)
}

// Zodiac estimates a zodiac sign by splitting the calendar year into twelve
// equal buckets. This is not the Moon's true ecliptic position.
func Zodiac(t time.Time) ZodiacSign {
	return ZodiacSigns[zodiacIndex(t)]
}

func zodiacIndex(t time.Time) int {
	dayOfYear := julian.DayOfYearGregorian(t.Year(), int(t.Month()), t.Day())
	return int(math.Floor(float64(dayOfYear)/365*12)) % 12
}
