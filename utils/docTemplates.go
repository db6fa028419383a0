package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"internhub/config"
	"internhub/models"

	qrcode "github.com/skip2/go-qrcode"
)

// DocData is everything the document templates need.
type DocData struct {
	Name            string
	Domain          string
	College         string
	DurationMonths  int
	StartDate       string
	EndDate         string
	IssueDate       string
	VerificationID  string
	VerificationURL string
	QRDataURL       template.URL

	// paymentSlip only
	Amount         int
	AmountInWords  string
	TransactionID  string
	GatewayOrderID string
	PaymentDate    string
}

// FormatDate renders dates the way they appear on printed documents.
func FormatDate(t time.Time) string {
	return t.Format("02 January 2006")
}

// VerificationURL is the public page a QR scan lands on.
func VerificationURL(verificationID string) string {
	return config.AppConfig.FrontendURL + "/verify/" + verificationID
}

// QRDataURL encodes content as a PNG QR code inlined as a data URL, so the
// rendered HTML needs no network access inside headless Chrome.
func QRDataURL(content string) (template.URL, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 140)
	if err != nil {
		return "", fmt.Errorf("qr encode failed: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}

var ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

func belowHundred(n int) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}

func belowThousand(n int) string {
	if n < 100 {
		return belowHundred(n)
	}
	s := ones[n/100] + " Hundred"
	if n%100 != 0 {
		s += " " + belowHundred(n%100)
	}
	return s
}

// NumberToWords spells out a rupee amount using the Indian grouping
// (thousand, lakh, crore). Used on the payment slip.
func NumberToWords(n int) string {
	if n == 0 {
		return "Zero"
	}
	if n < 0 {
		return "Minus " + NumberToWords(-n)
	}

	var parts []string
	if n >= 10000000 {
		parts = append(parts, belowHundred(n/10000000)+" Crore")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, belowHundred(n/100000)+" Lakh")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, belowHundred(n/1000)+" Thousand")
		n %= 1000
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

// BuildDocData assembles template data from the application and document
// records. Date fields fall back to the issue date when the application does
// not carry explicit start/end dates yet.
func BuildDocData(app *models.Application, doc *models.Document) (*DocData, error) {
	verifyURL := VerificationURL(doc.VerificationID)
	qr, err := QRDataURL(verifyURL)
	if err != nil {
		return nil, err
	}

	issue := time.Now()
	if app.DocumentIssueDate != nil {
		issue = *app.DocumentIssueDate
	}

	start := issue
	if app.StartDate != nil {
		start = *app.StartDate
	}
	end := start.AddDate(0, app.Duration, 0)
	if app.EndDate != nil {
		end = *app.EndDate
	}

	return &DocData{
		Name:            app.Name,
		Domain:          app.PreferredDomain,
		College:         app.College,
		DurationMonths:  app.Duration,
		StartDate:       FormatDate(start),
		EndDate:         FormatDate(end),
		IssueDate:       FormatDate(issue),
		VerificationID:  doc.VerificationID,
		VerificationURL: verifyURL,
		QRDataURL:       qr,
		Amount:          app.Amount,
		AmountInWords:   NumberToWords(app.Amount),
		TransactionID:   app.GatewayPaymentID,
		GatewayOrderID:  app.GatewayOrderID,
		PaymentDate:     FormatDate(issue),
	}, nil
}

const baseStyle = `
	body { font-family: 'Georgia', serif; margin: 0; padding: 48px 64px; color: #1a1a2e; }
	.border-frame { border: 6px double #1f3a60; padding: 40px 56px; min-height: 640px; position: relative; }
	.header { text-align: center; border-bottom: 2px solid #1f3a60; padding-bottom: 16px; }
	.header h1 { margin: 0; color: #1f3a60; font-size: 30px; letter-spacing: 2px; }
	.header p { margin: 4px 0 0; font-size: 13px; color: #555; }
	.title { text-align: center; font-size: 22px; margin: 28px 0 20px; color: #1f3a60; text-transform: uppercase; letter-spacing: 3px; }
	.body-text { font-size: 15px; line-height: 1.8; text-align: justify; }
	.highlight { color: #1f3a60; font-weight: bold; }
	.footer { position: absolute; bottom: 32px; left: 56px; right: 56px; display: flex; justify-content: space-between; align-items: flex-end; }
	.sign { text-align: center; font-size: 13px; }
	.sign .line { border-top: 1px solid #333; width: 180px; margin-bottom: 4px; }
	.verify { text-align: center; font-size: 10px; color: #666; }
	.verify img { width: 110px; height: 110px; }
	table.slip { width: 100%; border-collapse: collapse; font-size: 14px; margin-top: 24px; }
	table.slip th, table.slip td { border: 1px solid #9aa7b8; padding: 10px 14px; text-align: left; }
	table.slip th { background: #eef2f7; color: #1f3a60; width: 40%; }
`

var docTemplates = template.Must(template.New("docs").Parse(`
{{define "head"}}<!DOCTYPE html><html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head><body><div class="border-frame">
<div class="header"><h1>InternHub</h1><p>Industry Internship &amp; Training Program</p></div>{{end}}

{{define "foot"}}
<div class="footer">
	<div class="sign"><div class="line"></div>Program Director<br>InternHub</div>
	<div class="verify"><img src="{{.QRDataURL}}" alt="verification qr"><br>Verify: {{.VerificationID}}</div>
</div>
</div></body></html>{{end}}

{{define "offerLetter"}}{{template "head" .}}
<div class="title">Internship Offer Letter</div>
<div class="body-text">
	<p>Date: {{.IssueDate}}</p>
	<p>Dear <span class="highlight">{{.Name}}</span>,</p>
	<p>We are pleased to offer you an internship position in the
	<span class="highlight">{{.Domain}}</span> domain at InternHub. Your application,
	submitted through {{.College}}, has been reviewed and accepted.</p>
	<p>Your internship will run for <span class="highlight">{{.DurationMonths}} month(s)</span>,
	commencing on <span class="highlight">{{.StartDate}}</span> and concluding on
	<span class="highlight">{{.EndDate}}</span>. During this period you will work on
	guided, real-world projects under the supervision of our mentors.</p>
	<p>We look forward to having you on board.</p>
</div>
{{template "foot" .}}{{end}}

{{define "certificate"}}{{template "head" .}}
<div class="title">Certificate of Completion</div>
<div class="body-text" style="text-align:center;">
	<p>This is to certify that</p>
	<p style="font-size:26px;" class="highlight">{{.Name}}</p>
	<p>of {{.College}} has successfully completed a
	<span class="highlight">{{.DurationMonths}} month</span> internship in</p>
	<p style="font-size:20px;" class="highlight">{{.Domain}}</p>
	<p>from {{.StartDate}} to {{.EndDate}}, demonstrating dedication and a
	strong grasp of the domain throughout the program.</p>
	<p>Issued on {{.IssueDate}}</p>
</div>
{{template "foot" .}}{{end}}

{{define "loc"}}{{template "head" .}}
<div class="title">Letter of Completion</div>
<div class="body-text">
	<p>Date: {{.IssueDate}}</p>
	<p>To whomsoever it may concern,</p>
	<p>This letter confirms that <span class="highlight">{{.Name}}</span> of
	{{.College}} completed an internship in the
	<span class="highlight">{{.Domain}}</span> domain at InternHub, from
	<span class="highlight">{{.StartDate}}</span> to
	<span class="highlight">{{.EndDate}}</span>.</p>
	<p>During the internship, {{.Name}} worked on assigned project deliverables,
	met the program requirements and conducted themselves professionally. We
	wish them success in their future endeavours.</p>
</div>
{{template "foot" .}}{{end}}

{{define "paymentSlip"}}{{template "head" .}}
<div class="title">Payment Receipt</div>
<table class="slip">
	<tr><th>Received From</th><td>{{.Name}}</td></tr>
	<tr><th>Internship Domain</th><td>{{.Domain}}</td></tr>
	<tr><th>Duration</th><td>{{.DurationMonths}} month(s)</td></tr>
	<tr><th>Amount</th><td>&#8377; {{.Amount}} ({{.AmountInWords}} Rupees Only)</td></tr>
	<tr><th>Payment Reference</th><td>{{.TransactionID}}</td></tr>
	<tr><th>Order Reference</th><td>{{.GatewayOrderID}}</td></tr>
	<tr><th>Date</th><td>{{.PaymentDate}}</td></tr>
	<tr><th>Status</th><td>Verified</td></tr>
</table>
{{template "foot" .}}{{end}}
`))

// RenderDocumentHTML executes the template for a document kind.
func RenderDocumentHTML(kind string, data *DocData) (string, error) {
	var buf bytes.Buffer
	if err := docTemplates.ExecuteTemplate(&buf, kind, data); err != nil {
		return "", fmt.Errorf("template %s failed: %w", kind, err)
	}
	return buf.String(), nil
}
