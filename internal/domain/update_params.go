package domain

// Validate checks the status write is well formed.
func (p UpdateJobStatusParams) Validate() error {
	if p.JobID == "" {
		return ErrInvalidID
	}
	if !p.Status.IsKnown() {
		return ErrInvalidJobStatus
	}
	return nil
}
