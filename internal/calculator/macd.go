package calculator

// MACD computes the MACD line (fast EMA minus slow EMA), its signal
// line (EMA of the MACD line), and the histogram (line minus signal).
// Sequences are right-aligned to the shorter operand before each
// subtraction, so all three results end at the most recent value.
// Inputs shorter than slow+signalSpan+5 yield nil results.
func MACD(values []float64, fast, slow, signalSpan int) (line, signal, hist []float64) {
	if len(values) < slow+signalSpan+5 {
		return nil, nil, nil
	}

	ef := EMA(values, fast)
	es := EMA(values, slow)
	n := min(len(ef), len(es))
	ef = ef[len(ef)-n:]
	es = es[len(es)-n:]

	line = make([]float64, n)
	for i := range line {
		line[i] = ef[i] - es[i]
	}

	signal = EMA(line, signalSpan)
	m := min(len(line), len(signal))
	line = line[len(line)-m:]
	signal = signal[len(signal)-m:]

	hist = make([]float64, m)
	for i := range hist {
		hist[i] = line[i] - signal[i]
	}
	return line, signal, hist
}
