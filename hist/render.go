package hist

import (
	"fmt"
	"io"
	"strconv"
)

// WriteASCII emits one "<freq>\t<count>" line per non-empty bucket in
// ascending frequency order.
func WriteASCII(w io.Writer, h *Histogram) error {
	for j := h.Low; j <= h.High; j++ {
		n := h.Buckets[j-h.Low]
		if n <= 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d\t%d\n", j, n); err != nil {
			return err
		}
	}
	return nil
}

// WriteTable emits the human-readable cumulative table: a title naming
// root, the input total, then the buckets from high frequency down with
// cumulative percentages. unique selects the distinct-k-mer wording
// over the instance wording.
func WriteTable(w io.Writer, h *Histogram, root string, unique bool) error {
	if unique {
		fmt.Fprintf(w, "\nHistogram of unique %d-mers of %s\n", h.K, root)
	} else {
		fmt.Fprintf(w, "\nHistogram of %d-mer instances of %s\n", h.K, root)
	}

	total := h.Total()
	if unique {
		fmt.Fprintf(w, "\n  Input: %s unique %d-mers\n", commas(total), h.K)
	} else {
		fmt.Fprintf(w, "\n  Input: %s %d-mer instances\n", commas(total), h.K)
	}

	fmt.Fprintf(w, "\n     Freq:        Count   Cum. %%\n")

	sum := h.Buckets[h.High-h.Low]
	if h.Low == h.High {
		// One bucket holds every count; emit it once.
		_, err := fmt.Fprintf(w, " >= %5d: %12d   100.0%%\n", h.High, sum)
		return err
	}
	if sum > 0 {
		fmt.Fprintf(w, " >= %5d: %12d   %5.1f%%\n", h.High, sum, pct(sum, total))
	}
	for j := h.High - 1; j > h.Low; j-- {
		n := h.Buckets[j-h.Low]
		sum += n
		if n > 0 {
			fmt.Fprintf(w, "    %5d: %12d   %5.1f%%\n", j, n, pct(sum, total))
		}
	}
	if h.High > 1 {
		if h.Low == 1 {
			_, err := fmt.Fprintf(w, "    %5d: %12d   100.0%%\n", 1, h.Buckets[0])
			return err
		}
		_, err := fmt.Fprintf(w, " <= %5d: %12d   100.0%%\n", h.Low, h.Buckets[0])
		return err
	}
	return nil
}

func pct(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}

// commas renders n with thousands separators.
func commas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
