package disruption

// User-facing feedback messages, Arabic-localized. Exact wording is a
// presentation concern; the contract is that every operation fires exactly
// one success or failure notification.

var successMessages = map[ActionType]string{
	ActionCancel:    "تم إلغاء الرحلة بنجاح",
	ActionDelay:     "تم تسجيل تأخير الرحلة بنجاح",
	ActionDivert:    "تم تحويل مسار الرحلة بنجاح",
	ActionEmergency: "تم تسجيل التوقف الطارئ للرحلة",
	ActionTransfer:  "تم نقل الركاب إلى الرحلة البديلة بنجاح",
}

var failureMessages = map[ActionType]string{
	ActionCancel:    "تعذر إلغاء الرحلة، يرجى المحاولة مرة أخرى",
	ActionDelay:     "تعذر تسجيل تأخير الرحلة، يرجى المحاولة مرة أخرى",
	ActionDivert:    "تعذر تحويل مسار الرحلة، يرجى المحاولة مرة أخرى",
	ActionEmergency: "تعذر تسجيل التوقف الطارئ، يرجى المحاولة مرة أخرى",
	ActionTransfer:  "تعذر نقل الركاب، يرجى المحاولة مرة أخرى",
}

const genericFailureMessage = "تعذر تنفيذ العملية، يرجى المحاولة مرة أخرى"

// SuccessMessage returns the localized success feedback for an action.
func SuccessMessage(action ActionType) string {
	if msg, ok := successMessages[action]; ok {
		return msg
	}
	return "تمت العملية بنجاح"
}

// FailureMessage returns the localized failure feedback for an action.
func FailureMessage(action ActionType) string {
	if msg, ok := failureMessages[action]; ok {
		return msg
	}
	return genericFailureMessage
}
