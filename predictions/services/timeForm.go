package services

// TimeForm is the submitted state of the time selection form.
type TimeForm struct {
	Time string `form:"time" json:"time"`
}

// Submit invokes onSubmit with the raw time value when the field is filled.
// An empty field never reaches onSubmit.
func (f TimeForm) Submit(onSubmit func(timeOfDay string)) bool {
	if f.Time == "" {
		return false
	}
	onSubmit(f.Time)
	return true
}
