package i18n

// Key identifies a localized message.
type Key string

// Message keys, grouped by the component that emits them.
const (
	MsgAuthSignInOK                 Key = "auth.signin.ok"
	MsgAuthSignInFailed             Key = "auth.signin.failed"
	MsgAuthSignUpOK                 Key = "auth.signup.ok"
	MsgAuthSignUpFailed             Key = "auth.signup.failed"
	MsgAuthPopupOK                  Key = "auth.popup.ok"
	MsgAuthPopupFailed              Key = "auth.popup.failed"
	MsgAuthSignOutOK                Key = "auth.signout.ok"
	MsgAuthSignOutFailed            Key = "auth.signout.failed"
	MsgAuthDisplayNameOK            Key = "auth.display_name.ok"
	MsgAuthDisplayNameFailed        Key = "auth.display_name.failed"
	MsgAuthErrorInvalidCredential   Key = "auth.error.invalid_credential"
	MsgAuthErrorUserNotFound        Key = "auth.error.user_not_found"
	MsgAuthErrorWrongPassword       Key = "auth.error.wrong_password"
	MsgAuthErrorInvalidEmail        Key = "auth.error.invalid_email"
	MsgAuthErrorUserDisabled        Key = "auth.error.user_disabled"
	MsgAuthErrorTooManyRequests     Key = "auth.error.too_many_requests"
	MsgAuthErrorNetwork             Key = "auth.error.network"
	MsgAuthErrorEmailInUse          Key = "auth.error.email_in_use"
	MsgAuthErrorOperationNotAllowed Key = "auth.error.operation_not_allowed"
	MsgAuthErrorWeakPassword        Key = "auth.error.weak_password"
	MsgAuthErrorPopupCancelled      Key = "auth.error.popup_cancelled"
	MsgAuthErrorAccountExists       Key = "auth.error.account_exists"
	MsgAuthErrorSessionExpired      Key = "auth.error.session_expired"
	MsgAuthErrorProfileCreation     Key = "auth.error.profile_creation"

	MsgHTTPUnauthorized Key = "http.unauthorized"
	MsgHTTPForbidden    Key = "http.forbidden"
	MsgHTTPNotFound     Key = "http.not_found"
	MsgHTTPValidation   Key = "http.validation"
	MsgHTTPServer       Key = "http.server"
	MsgHTTPNoResponse   Key = "http.no_response"
	MsgHTTPOther        Key = "http.other"
	MsgHTTPUnexpected   Key = "http.unexpected"

	MsgProfileUpdateOK     Key = "profile.update.ok"
	MsgProfileUpdateFailed Key = "profile.update.failed"
	MsgProfileSellerOK     Key = "profile.seller.ok"
	MsgProfileSellerFailed Key = "profile.seller.failed"
	MsgProfileSellerOnly   Key = "profile.seller_only"

	MsgFormBusy                 Key = "form.busy"
	MsgFormEmailInvalid         Key = "form.email.invalid"
	MsgFormPasswordMin          Key = "form.password.min"
	MsgFormPasswordMismatch     Key = "form.password.mismatch"
	MsgFormFirstNameMin         Key = "form.first_name.min"
	MsgFormLastNameMin          Key = "form.last_name.min"
	MsgFormUserTypeInvalid      Key = "form.user_type.invalid"
	MsgFormTermsRequired        Key = "form.terms.required"
	MsgFormBrandRequired        Key = "form.brand.required"
	MsgFormModelRequired        Key = "form.model.required"
	MsgFormYearMin              Key = "form.year.min"
	MsgFormYearMax              Key = "form.year.max"
	MsgFormPricePositive        Key = "form.price.positive"
	MsgFormMileageMin           Key = "form.mileage.min"
	MsgFormFuelTypeRequired     Key = "form.fuel_type.required"
	MsgFormTransmissionRequired Key = "form.transmission.required"
	MsgFormDoorsMin             Key = "form.doors.min"
	MsgFormDoorsMax             Key = "form.doors.max"
	MsgFormSeatsMin             Key = "form.seats.min"
	MsgFormSeatsMax             Key = "form.seats.max"
	MsgFormHorsepowerMin        Key = "form.horsepower.min"
	MsgFormConditionRequired    Key = "form.condition.required"
	MsgFormPreviousOwnersMin    Key = "form.previous_owners.min"
	MsgFormDescriptionRequired  Key = "form.description.required"
	MsgFormDescriptionMin       Key = "form.description.min"
)

// AllKeys lists every key the base locale must define.
var AllKeys = []Key{
	MsgAuthSignInOK,
	MsgAuthSignInFailed,
	MsgAuthSignUpOK,
	MsgAuthSignUpFailed,
	MsgAuthPopupOK,
	MsgAuthPopupFailed,
	MsgAuthSignOutOK,
	MsgAuthSignOutFailed,
	MsgAuthDisplayNameOK,
	MsgAuthDisplayNameFailed,
	MsgAuthErrorInvalidCredential,
	MsgAuthErrorUserNotFound,
	MsgAuthErrorWrongPassword,
	MsgAuthErrorInvalidEmail,
	MsgAuthErrorUserDisabled,
	MsgAuthErrorTooManyRequests,
	MsgAuthErrorNetwork,
	MsgAuthErrorEmailInUse,
	MsgAuthErrorOperationNotAllowed,
	MsgAuthErrorWeakPassword,
	MsgAuthErrorPopupCancelled,
	MsgAuthErrorAccountExists,
	MsgAuthErrorSessionExpired,
	MsgAuthErrorProfileCreation,
	MsgHTTPUnauthorized,
	MsgHTTPForbidden,
	MsgHTTPNotFound,
	MsgHTTPValidation,
	MsgHTTPServer,
	MsgHTTPNoResponse,
	MsgHTTPOther,
	MsgHTTPUnexpected,
	MsgProfileUpdateOK,
	MsgProfileUpdateFailed,
	MsgProfileSellerOK,
	MsgProfileSellerFailed,
	MsgProfileSellerOnly,
	MsgFormBusy,
	MsgFormEmailInvalid,
	MsgFormPasswordMin,
	MsgFormPasswordMismatch,
	MsgFormFirstNameMin,
	MsgFormLastNameMin,
	MsgFormUserTypeInvalid,
	MsgFormTermsRequired,
	MsgFormBrandRequired,
	MsgFormModelRequired,
	MsgFormYearMin,
	MsgFormYearMax,
	MsgFormPricePositive,
	MsgFormMileageMin,
	MsgFormFuelTypeRequired,
	MsgFormTransmissionRequired,
	MsgFormDoorsMin,
	MsgFormDoorsMax,
	MsgFormSeatsMin,
	MsgFormSeatsMax,
	MsgFormHorsepowerMin,
	MsgFormConditionRequired,
	MsgFormPreviousOwnersMin,
	MsgFormDescriptionRequired,
	MsgFormDescriptionMin,
}
