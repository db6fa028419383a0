package models

import (
	"time"

	"gorm.io/gorm"
)

// Document kinds
const (
	KindOfferLetter = "offerLetter"
	KindCertificate = "certificate"
	KindLOC         = "loc"
	KindPaymentSlip = "paymentSlip"
)

// Document holds the generated artifacts for one application. The record is
// created lazily on first generation; VerificationID never changes after that
// so public verification links stay stable.
type Document struct {
	gorm.Model
	ApplicationID  uint   `gorm:"uniqueIndex;not null" json:"applicationId"`
	UserID         uint   `gorm:"index" json:"userId"`
	VerificationID string `gorm:"uniqueIndex;not null" json:"verificationId"`

	OfferLetterURL      string `json:"offerLetterUrl"`
	OfferLetterPublicID string `json:"offerLetterPublicId"`
	CertificateURL      string `json:"certificateUrl"`
	CertificatePublicID string `json:"certificatePublicId"`
	LocURL              string `json:"locUrl"`
	LocPublicID         string `json:"locPublicId"`
	PaymentSlipURL      string `json:"paymentSlipUrl"`
	PaymentSlipPublicID string `json:"paymentSlipPublicId"`

	OfferLetterVisible bool `gorm:"default:true" json:"offerLetterVisible"`
	CertificateVisible bool `gorm:"default:true" json:"certificateVisible"`
	LocVisible         bool `gorm:"default:true" json:"locVisible"`
	PaymentSlipVisible bool `gorm:"default:true" json:"paymentSlipVisible"`

	IssuedOn time.Time `json:"issuedOn"`
}

// URLForKind returns the stored artifact URL and storage id for a kind.
func (d *Document) URLForKind(kind string) (string, string) {
	switch kind {
	case KindOfferLetter:
		return d.OfferLetterURL, d.OfferLetterPublicID
	case KindCertificate:
		return d.CertificateURL, d.CertificatePublicID
	case KindLOC:
		return d.LocURL, d.LocPublicID
	case KindPaymentSlip:
		return d.PaymentSlipURL, d.PaymentSlipPublicID
	}
	return "", ""
}
