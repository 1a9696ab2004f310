package formats

import (
	"bufio"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// WritePoly writes the Osmosis polygon filter format:
//
//	<name>
//	1
//		<lon>	<lat>
//		...
//	END
//	2
//	...
//	END
//	END
//
// Coordinates are in scientific notation with 6 fractional digits, longitude first.
func WritePoly(w io.Writer, name string, rings Rings) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, name)
	i := 1
	for points, err := range rings {
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, i)
		for p := range points {
			fmt.Fprintf(bw, "\t%s\t%s\n", Scientific(p.Lon), Scientific(p.Lat))
		}
		fmt.Fprintln(bw, "END")
		i++
	}
	fmt.Fprintln(bw, "END")
	return bw.Flush()
}

var ten = decimal.NewFromInt(10)

// Scientific formats d like 5.112346E+1: one integer digit, 6 fractional digits
// rounded half to even, and an unpadded signed exponent.
func Scientific(d decimal.Decimal) string {
	if d.IsZero() {
		return "0.000000E+0"
	}
	// d = coefficient * 10^exponent; the leading digit sits at 10^e.
	digits := len(d.Coefficient().Text(10))
	if d.Coefficient().Sign() < 0 {
		digits--
	}
	e := int32(digits-1) + d.Exponent()

	m := d.Shift(-e).RoundBank(6)
	if m.Abs().GreaterThanOrEqual(ten) {
		// Rounding carried into a new digit, eg. 9.9999999 -> 10.000000.
		e++
		m = d.Shift(-e).RoundBank(6)
	}
	return fmt.Sprintf("%sE%+d", m.StringFixed(6), e)
}
