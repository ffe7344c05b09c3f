package i18n

import "github.com/afiliados-next/internal/constants"

var messages = map[string]map[string]string{
	constants.LocaleESMX: {
		"success": "OK",

		"error.bad_request":             "Solicitud inválida",
		"error.not_found":               "Recurso no encontrado",
		"error.internal":                "Error interno del servidor",
		"error.rate_limited":            "Demasiadas solicitudes, intenta de nuevo en %d segundos",
		"error.rate_limit_unavailable":  "Servicio de control de solicitudes no disponible",
		"error.config_fetch_failed":     "No se pudo obtener la configuración",
		"error.captcha_required":        "Completa el captcha",
		"error.captcha_invalid":         "El captcha es incorrecto",
		"error.captcha_config_invalid":  "Configuración de captcha inválida",
		"error.captcha_verify_failed":   "No se pudo verificar el captcha",
		"error.captcha_unavailable":     "Captcha no disponible",
		"error.captcha_generate_failed": "No se pudo generar el captcha",
		"error.form_not_found":          "El formulario expiró, recarga la página",
		"error.form_field_invalid":      "Campo desconocido",
		"error.submission_in_progress":  "Ya se está enviando el registro",
		"error.form_save_failed":        "No se pudo guardar el formulario",
		"error.form_invalid":            "Revisa los campos marcados",

		"form.curp_invalid":        "La CURP no es válida. Verifica que tenga el formato correcto.",
		"form.curp_duplicate":      "La CURP ya está registrada",
		"form.section_invalid":     "La sección debe tener de 1 a 4 dígitos",
		"form.name_required":       "El nombre es obligatorio",
		"form.promoter_required":   "El nombre del promotor es obligatorio",
		"form.affiliator_required": "El nombre del afiliador es obligatorio",
		"form.phone_invalid":       "El teléfono debe tener 10 dígitos",
		"form.submit_failed":       "Ocurrió un error al enviar el registro. Intenta de nuevo.",
		"form.submit_success":      "Registro exitoso",

		"page.title":             "Registro de afiliados",
		"page.label.curp":        "CURP:",
		"page.label.seccion":     "SECCIÓN:",
		"page.label.nombre":      "NOMBRE COMPLETO:",
		"page.label.promotor":    "PROMOTOR@:",
		"page.label.afiliador":   "AFILIADOR@:",
		"page.label.telefono":    "TELÉFONO:",
		"page.label.captcha":     "CAPTCHA:",
		"page.button.submit":     "AFILIAR",
		"page.button.submitting": "ENVIANDO...",
		"page.network_error":     "Sin conexión con el servidor, intenta de nuevo",
	},
	constants.LocaleENUS: {
		"success": "OK",

		"error.bad_request":             "Bad request",
		"error.not_found":               "Resource not found",
		"error.internal":                "Internal server error",
		"error.rate_limited":            "Too many requests, try again in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiting is unavailable",
		"error.config_fetch_failed":     "Failed to load configuration",
		"error.captcha_required":        "Please complete the captcha",
		"error.captcha_invalid":         "Captcha is incorrect",
		"error.captcha_config_invalid":  "Captcha configuration is invalid",
		"error.captcha_verify_failed":   "Captcha verification failed",
		"error.captcha_unavailable":     "Captcha is unavailable",
		"error.captcha_generate_failed": "Failed to generate captcha",
		"error.form_not_found":          "The form expired, please reload the page",
		"error.form_field_invalid":      "Unknown field",
		"error.submission_in_progress":  "The registration is already being submitted",
		"error.form_save_failed":        "Failed to save the form",
		"error.form_invalid":            "Please review the highlighted fields",

		"form.curp_invalid":        "The CURP is not valid. Check its format.",
		"form.curp_duplicate":      "This CURP is already registered",
		"form.section_invalid":     "The section must have 1 to 4 digits",
		"form.name_required":       "Full name is required",
		"form.promoter_required":   "Promoter name is required",
		"form.affiliator_required": "Affiliator name is required",
		"form.phone_invalid":       "The phone number must have 10 digits",
		"form.submit_failed":       "The registration could not be submitted. Please try again.",
		"form.submit_success":      "Registration completed",

		"page.title":             "Affiliate registration",
		"page.label.curp":        "CURP:",
		"page.label.seccion":     "SECTION:",
		"page.label.nombre":      "FULL NAME:",
		"page.label.promotor":    "PROMOTER:",
		"page.label.afiliador":   "AFFILIATOR:",
		"page.label.telefono":    "PHONE:",
		"page.label.captcha":     "CAPTCHA:",
		"page.button.submit":     "REGISTER",
		"page.button.submitting": "SUBMITTING...",
		"page.network_error":     "Could not reach the server, try again",
	},
}
