package contractoffer

import (
	"bytes"
	"fmt"
	dbmodels "intavia-backend/models/db"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// renderOfferPDF produces the document the candidate is asked to sign.
func renderOfferPDF(offer dbmodels.ContractOffer, contract dbmodels.Contract, candidate dbmodels.Candidate) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, contract.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Candidate: %s %s", candidate.FirstName, candidate.LastName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Position: %s", contract.Position), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Compensation: %d %s", offer.SalaryAmount, offer.SalaryCurrency), "", 1, "L", false, 0, "")
	if offer.StartDate != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Start date: %s", offer.StartDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	if offer.EndDate != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("End date: %s", offer.EndDate.Format("2006-01-02")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
	pdf.MultiCell(0, 6, contract.Body, "", "L", false)

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "offer pdf render failed")
	}
	return buf.Bytes(), nil
}
