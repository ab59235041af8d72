package screens

// User-facing texts.
const (
	TitleNothingChanged  = "Nothing changed"
	TextNothingToSave    = "There is nothing to save"
	TitleNothingSelected = "Nothing selected"
	TextNothingToDelete  = "There is nothing to delete"
	TitleDelete          = "Delete"
	TextAreYouSure       = "Are you sure?"
	ButtonDelete         = "Delete"
	ButtonCancel         = "Cancel"
	MsgDataUpdated       = "Data updated successfully"
	MsgDataDeleted       = "Data deleted successfully"
)

var (
	alertNothingToSave = Alert{Type: AlertInfo, Title: TitleNothingChanged, Text: TextNothingToSave}
	alertNothingToDel  = Alert{Type: AlertInfo, Title: TitleNothingSelected, Text: TextNothingToDelete}
	confirmDelete      = Alert{
		Type:        AlertWarning,
		Title:       TitleDelete,
		Text:        TextAreYouSure,
		ConfirmText: ButtonDelete,
		CancelText:  ButtonCancel,
	}
)
