package constants

const (
	ViewData            = "view_data"
	RegisterFarmer      = "register_farmer"
	RecordReputation    = "record_reputation"
	UploadCertificate   = "upload_certificate"
	RequestVerification = "request_verification"
	VerifyCertificate   = "verify_certificate"
	RevokeCertificate   = "revoke_certificate"
	StartTransition     = "start_transition"
	UpdateTransition    = "update_transition"
	CancelTransition    = "cancel_transition"
	LogPractice         = "log_practice"
	VerifyPractice      = "verify_practice"
	BatchCertify        = "batch_certify"
)
