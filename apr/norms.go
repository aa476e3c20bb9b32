package apr

import (
	"fmt"
	"sort"
	"strconv"

	re2 "github.com/wasilibs/go-re2"
)

// Matches NR citations the model writes in control measures, in the
// forms "NR 35", "NR-35", "NR35".
var nrPattern = re2.MustCompile(`NR[ -]?([0-9]{1,2})`)

// ExtractNorms collects the distinct NR numbers cited anywhere in the
// APR, sorted numerically, as "NR 06", "NR 35", ...
func ExtractNorms(a *Apr) []string {
	nums := map[int]bool{}

	scan := func(text string) {
		for _, m := range nrPattern.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				nums[n] = true
			}
		}
	}

	for _, etapa := range a.EtapasERiscos {
		for _, medida := range etapa.MedidasDeControleRecomendadas {
			scan(medida)
		}
	}
	scan(a.ProcedimentosEmergencia)

	sorted := make([]int, 0, len(nums))
	for n := range nums {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	norms := make([]string, 0, len(sorted))
	for _, n := range sorted {
		norms = append(norms, fmt.Sprintf("NR %02d", n))
	}
	return norms
}
