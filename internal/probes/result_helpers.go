package probes

func NewResult(name string, passed bool, severity Severity, message string) Result {
	res := Result{
		Name:     name,
		Passed:   passed,
		Severity: severity,
	}
	if message != "" {
		res.Message = message
	}
	return res
}

// PassResult is a satisfied check.
func PassResult(name string, message string) Result {
	return NewResult(name, true, SeverityInfo, message)
}

// AdvisoryResult is a satisfied check that still deserves attention, such as a
// supported but not recommended interpreter.
func AdvisoryResult(name string, message string) Result {
	return NewResult(name, true, SeverityWarning, message)
}

// WarningResult is an unsatisfied check that does not block readiness.
func WarningResult(name string, message string) Result {
	return NewResult(name, false, SeverityWarning, message)
}

// FailResult is an unsatisfied check that blocks readiness.
func FailResult(name string, message string) Result {
	return NewResult(name, false, SeverityError, message)
}

// UnmetResult is an unsatisfied check at the severity section carries: an
// error for blocking sections and a warning otherwise.
func UnmetResult(section Section, name string, message string) Result {
	if section.Blocking() {
		return FailResult(name, message)
	}
	return WarningResult(name, message)
}

// WithEvidence returns a copy of r with key set in its evidence.
func (r Result) WithEvidence(key, value string) Result {
	ev := make(map[string]string, len(r.Evidence)+1)
	for k, v := range r.Evidence {
		ev[k] = v
	}
	ev[key] = value
	r.Evidence = ev
	return r
}

// Failed reports whether any result blocks readiness.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}
