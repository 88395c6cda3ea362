package aggregate

import "fmt"

// CP1Rate formats yes / (yes + no) as a percentage with one decimal.
// A zero denominator yields "0.0".
func CP1Rate(yes, no int) string {
	total := yes + no
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(yes)/float64(total)*100)
}

type tally struct {
	yes, no int
}

func (t *tally) add(flag bool) {
	if flag {
		t.yes++
	} else {
		t.no++
	}
}

func (t *tally) merge(o *tally) {
	t.yes += o.yes
	t.no += o.no
}
