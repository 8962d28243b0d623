package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// quotationPrefix builds Q{type}{YY}{MM}; the sequence restarts every month
// and for every type.
func quotationPrefix(typeCode string, at time.Time) string {
	return fmt.Sprintf("Q%s%02d%02d", typeCode, at.Year()%100, int(at.Month()))
}

// nextQuotationNumber returns prefix followed by the five-digit sequence
// following last. An empty last starts at 00001.
func nextQuotationNumber(prefix, last string) (string, error) {
	seq := 0
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil || !strings.HasPrefix(last, prefix) {
			return "", fmt.Errorf("malformed quotation number %q", last)
		}
		seq = n
	}
	return fmt.Sprintf("%s%05d", prefix, seq+1), nil
}
