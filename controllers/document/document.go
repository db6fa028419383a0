package documentController

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Renderer and Storage are swappable so tests can run without a browser or a
// storage account.
var (
	Renderer utils.PDFRenderer = utils.ChromeRenderer{}
	Storage  utils.Uploader    = utils.CloudinaryUploader{}
)

var errPrecondition = errors.New("precondition failed")

// getOrCreateDocument returns the document record for an application,
// creating it with a fresh verification id on first use. The verification id
// never changes afterwards.
func getOrCreateDocument(db *gorm.DB, app *models.Application) (*models.Document, error) {
	var doc models.Document
	err := db.Where("application_id = ?", app.ID).First(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	doc = models.Document{
		ApplicationID:  app.ID,
		UserID:         app.UserID,
		VerificationID: uuid.NewString(),
		IssuedOn:       time.Now(),
	}
	if err := db.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// checkPreconditions enforces what each kind requires before generation.
func checkPreconditions(db *gorm.DB, app *models.Application, kind string) error {
	switch kind {
	case models.KindOfferLetter, models.KindLOC:
		if app.DocumentIssueDate == nil {
			return fmt.Errorf("%w: document issue date is not set", errPrecondition)
		}
	case models.KindCertificate:
		if app.DocumentIssueDate == nil {
			return fmt.Errorf("%w: document issue date is not set", errPrecondition)
		}
		var progress models.ActivityProgress
		err := db.Where("application_id = ?", app.ID).First(&progress).Error
		if err != nil || !progress.IsEligibleForCertificate {
			return fmt.Errorf("%w: student is not marked eligible for certificate", errPrecondition)
		}
	case models.KindPaymentSlip:
		if app.PaymentStatus != models.PaymentVerified {
			return fmt.Errorf("%w: payment is not verified", errPrecondition)
		}
	default:
		return fmt.Errorf("unknown document kind: %s", kind)
	}
	return nil
}

// layoutForKind keeps the certificate landscape; everything else prints as
// portrait A4 with a small margin.
func layoutForKind(kind string) utils.RenderLayout {
	if kind == models.KindCertificate {
		return utils.RenderLayout{Landscape: true}
	}
	return utils.RenderLayout{MarginInches: 0.4}
}

// columnsForKind maps a kind to its URL, public id and visibility columns.
func columnsForKind(kind string) (urlCol, publicIDCol, visibleCol string) {
	switch kind {
	case models.KindOfferLetter:
		return "offer_letter_url", "offer_letter_public_id", "offer_letter_visible"
	case models.KindCertificate:
		return "certificate_url", "certificate_public_id", "certificate_visible"
	case models.KindLOC:
		return "loc_url", "loc_public_id", "loc_visible"
	case models.KindPaymentSlip:
		return "payment_slip_url", "payment_slip_public_id", "payment_slip_visible"
	}
	return "", "", ""
}

// generateKind renders, validates and uploads one document kind, then stores
// the resulting URL. Existing artifacts are returned as-is unless force is
// set, so repeat calls do not re-render.
func generateKind(ctx context.Context, db *gorm.DB, app *models.Application, doc *models.Document, kind string, force bool) (string, error) {
	if url, _ := doc.URLForKind(kind); url != "" && !force {
		return url, nil
	}

	if err := checkPreconditions(db, app, kind); err != nil {
		return "", err
	}

	data, err := utils.BuildDocData(app, doc)
	if err != nil {
		return "", err
	}

	html, err := utils.RenderDocumentHTML(kind, data)
	if err != nil {
		return "", err
	}

	pdf, err := Renderer.RenderHTML(ctx, html, layoutForKind(kind))
	if err != nil {
		return "", err
	}
	if err := utils.ValidatePDF(pdf); err != nil {
		return "", err
	}

	publicID := fmt.Sprintf("documents/%ss/%s_%d", kind, kind, app.ID)
	result, err := Storage.UploadPDF(ctx, pdf, publicID)
	if err != nil {
		return "", err
	}

	urlCol, publicIDCol, _ := columnsForKind(kind)
	if err := db.Model(&models.Document{}).Where("id = ?", doc.ID).Updates(map[string]interface{}{
		urlCol:      result.SecureURL,
		publicIDCol: result.PublicID,
		"issued_on": time.Now(),
	}).Error; err != nil {
		return "", err
	}

	// Keep the in-memory copy aligned for callers that continue using it.
	db.First(doc, doc.ID)

	return result.SecureURL, nil
}

func issueResponse(c *fiber.Ctx, kind, url string, err error) error {
	if err != nil {
		if errors.Is(err, errPrecondition) {
			return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, err.Error(), nil)
		}
		log.Printf("Document generation failed (%s): %v", kind, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate document!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document generated successfully.", fiber.Map{
		"kind": kind,
		"url":  url,
	})
}

// IssueDocument generates one document kind for an application (admin only).
// Pass ?force=true to re-render over an existing artifact.
func IssueDocument(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}
	kind := c.Params("kind")
	if urlCol, _, _ := columnsForKind(kind); urlCol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document kind!", nil)
	}
	force := c.QueryBool("force", false)

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	doc, err := getOrCreateDocument(db, &application)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to prepare document record!", nil)
	}

	url, err := generateKind(c.Context(), db, &application, doc, kind, force)
	if err == nil {
		utils.RecordAudit(admin.ID, "GENERATE_DOCUMENT", "application", application.ID, fiber.Map{
			"kind":  kind,
			"force": force,
		}, c.IP())
	}
	return issueResponse(c, kind, url, err)
}

// GenerateAll issues the three letter documents in one go. The application
// only moves to Approved when every kind succeeds; a partial failure leaves
// the status untouched and reports per-kind results.
func GenerateAll(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	doc, err := getOrCreateDocument(db, &application)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to prepare document record!", nil)
	}

	kinds := []string{models.KindOfferLetter, models.KindCertificate, models.KindLOC}
	results := fiber.Map{}
	failures := 0
	for _, kind := range kinds {
		url, genErr := generateKind(c.Context(), db, &application, doc, kind, false)
		if genErr != nil {
			log.Printf("Bulk generation failed for application %d kind %s: %v", application.ID, kind, genErr)
			results[kind] = fiber.Map{"success": false, "error": genErr.Error()}
			failures++
			continue
		}
		results[kind] = fiber.Map{"success": true, "url": url}
	}

	if failures > 0 {
		return middleware.JsonResponse(c, fiber.StatusMultiStatus, false, "Some documents failed to generate.", results)
	}

	if err := db.Model(&application).Update("status", models.StatusApproved).Error; err != nil {
		log.Printf("Error approving application %d after bulk generation: %v", application.ID, err)
	}

	utils.RecordAudit(admin.ID, "GENERATE_ALL_DOCUMENTS", "application", application.ID, results, c.IP())
	utils.CreateNotification(application.UserID, "Documents Ready",
		"Your internship documents have been generated.", "document")
	utils.SendDocumentsReadyEmail(application.Email, application.Name)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All documents generated successfully.", results)
}

// ToggleVisibility shows or hides one document kind from the student and the
// public verification page (admin only).
func ToggleVisibility(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}
	kind := c.Params("kind")
	_, _, visibleCol := columnsForKind(kind)
	if visibleCol == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document kind!", nil)
	}

	var reqData struct {
		Visible bool `json:"visible"`
	}
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var doc models.Document
	if err := db.Where("application_id = ?", applicationID).First(&doc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Documents not found for this application!", nil)
	}

	if err := db.Model(&doc).Update(visibleCol, reqData.Visible).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update visibility!", nil)
	}

	utils.RecordAudit(admin.ID, "TOGGLE_VISIBILITY", "document", doc.ID, fiber.Map{
		"kind":    kind,
		"visible": reqData.Visible,
	}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Visibility updated successfully.", nil)
}

// GetDocuments returns the caller's documents for one application, with
// hidden kinds blanked out for non-admins.
func GetDocuments(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("userRole").(string)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}
	if role != models.RoleAdmin && application.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	var doc models.Document
	if err := db.Where("application_id = ?", applicationID).First(&doc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No documents generated yet!", nil)
	}

	if role != models.RoleAdmin {
		if !doc.OfferLetterVisible {
			doc.OfferLetterURL = ""
		}
		if !doc.CertificateVisible {
			doc.CertificateURL = ""
		}
		if !doc.LocVisible {
			doc.LocURL = ""
		}
		if !doc.PaymentSlipVisible {
			doc.PaymentSlipURL = ""
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Documents fetched successfully.", doc)
}

// VerifyDocument is the public lookup behind the QR code. It exposes only
// what an external verifier needs and honors visibility flags.
func VerifyDocument(c *fiber.Ctx) error {
	verificationID := c.Params("verificationId")
	if verificationID == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification id is required!", nil)
	}

	db := database.Database.Db

	var doc models.Document
	if err := db.Where("verification_id = ?", verificationID).First(&doc).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No document found for this verification id!", nil)
	}

	var application models.Application
	if err := db.First(&application, doc.ApplicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No document found for this verification id!", nil)
	}

	documents := fiber.Map{}
	if doc.OfferLetterVisible && doc.OfferLetterURL != "" {
		documents["offerLetter"] = doc.OfferLetterURL
	}
	if doc.CertificateVisible && doc.CertificateURL != "" {
		documents["certificate"] = doc.CertificateURL
	}
	if doc.LocVisible && doc.LocURL != "" {
		documents["loc"] = doc.LocURL
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document verified successfully.", fiber.Map{
		"name":           application.Name,
		"domain":         application.PreferredDomain,
		"duration":       application.Duration,
		"issuedOn":       doc.IssuedOn,
		"verificationId": doc.VerificationID,
		"documents":      documents,
	})
}
