package dimension

type Kind int

const (
	Mass Kind = iota
	Length
	Time
	Current
	Temperature
	Amount
	Luminosity

	// Count is the number of base dimensions and the length of a Vector.
	Count int = iota
)

func Kinds() []Kind {
	return []Kind{Mass, Length, Time, Current, Temperature, Amount, Luminosity}
}

func (k Kind) String() string {
	switch k {
	case Mass:
		return "mass"
	case Length:
		return "length"
	case Time:
		return "time"
	case Current:
		return "current"
	case Temperature:
		return "temperature"
	case Amount:
		return "amount"
	case Luminosity:
		return "luminosity"
	default:
		return "<unknown>"
	}
}

// Symbol returns the SI symbol of the coherent base unit for k.
func (k Kind) Symbol() string {
	switch k {
	case Mass:
		return "kg"
	case Length:
		return "m"
	case Time:
		return "s"
	case Current:
		return "A"
	case Temperature:
		return "K"
	case Amount:
		return "mol"
	case Luminosity:
		return "cd"
	default:
		return "?"
	}
}

func (k Kind) Valid() bool {
	return k >= Mass && int(k) < Count
}
