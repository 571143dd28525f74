package types

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/esgboard-dev/esgboard/internal/models"
)

// Response shapes for the JSON API. Constructors project model rows into
// exactly the fields the frontend consumes, mirroring the fields enumerated
// in the data model.

type UserResponse struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	PhoneNumber      string `json:"phone_number"`
	Organization     string `json:"organization"`
	JobTitle         string `json:"job_title"`
	Bio              string `json:"bio"`
	SubscriptionType string `json:"subscription_type"`
	IsVerified       bool   `json:"is_verified"`
	IsStaff          bool   `json:"is_staff"`
	DateJoined       string `json:"date_joined"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		PhoneNumber:      u.PhoneNumber,
		Organization:     u.Organization,
		JobTitle:         u.JobTitle,
		Bio:              u.Bio,
		SubscriptionType: u.SubscriptionType,
		IsVerified:       u.IsVerified,
		IsStaff:          u.IsStaff,
		DateJoined:       u.CreatedAt.Format(time.RFC3339),
	}
}

type CompanyResponse struct {
	ISIN        string `json:"isin"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	ESGSector   string `json:"esg_sector"`
	BSESymbol   string `json:"bse_symbol"`
	NSESymbol   string `json:"nse_symbol"`
	MarketCap   string `json:"market_cap"`
	EScore      string `json:"e_score"`
	SScore      string `json:"s_score"`
	GScore      string `json:"g_score"`
	ESGScore    string `json:"esg_score"`
	Composite   string `json:"composite"`
	Grade       string `json:"grade"`
	Positive    string `json:"positive"`
	Negative    string `json:"negative"`
	Controversy string `json:"controversy"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func NewCompanyResponse(c models.Company) CompanyResponse {
	return CompanyResponse{
		ISIN:        c.ISIN,
		CompanyName: c.CompanyName,
		Sector:      c.Sector,
		ESGSector:   c.ESGSector,
		BSESymbol:   c.BSESymbol,
		NSESymbol:   c.NSESymbol,
		MarketCap:   c.MarketCap,
		EScore:      c.EScore,
		SScore:      c.SScore,
		GScore:      c.GScore,
		ESGScore:    c.ESGScore,
		Composite:   c.Composite,
		Grade:       c.Grade,
		Positive:    c.Positive,
		Negative:    c.Negative,
		Controversy: c.Controversy,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// CompanyListItem backs both the ESG report listing and the comparison tool.
// has_pdf_report is derived from the filename, not the stored flag.
type CompanyListItem struct {
	ISIN         string `json:"isin"`
	CompanyName  string `json:"company_name"`
	Sector       string `json:"sector"`
	ESGSector    string `json:"esg_sector"`
	ESGRating    string `json:"esg_rating"`
	Grade        string `json:"grade"`
	PDFFilename  string `json:"pdf_filename"`
	HasPDFReport bool   `json:"has_pdf_report"`
}

func NewCompanyListItem(c models.Company) CompanyListItem {
	return CompanyListItem{
		ISIN:         c.ISIN,
		CompanyName:  c.CompanyName,
		Sector:       c.Sector,
		ESGSector:    c.ESGSector,
		ESGRating:    c.ESGRating,
		Grade:        c.Grade,
		PDFFilename:  c.PDFFilename,
		HasPDFReport: c.PDFOnRecord(),
	}
}

// MyReportRow is one entitled company in the "My Reports" listing.
type MyReportRow struct {
	ID             uint   `json:"id"`
	ISIN           string `json:"isin"`
	CompanyName    string `json:"company_name"`
	Sector         string `json:"sector"`
	ESGSector      string `json:"esg_sector"`
	ESGRating      string `json:"esg_rating"`
	AssignedAt     string `json:"assigned_at"`
	Notes          string `json:"notes"`
	ReportFilename string `json:"report_filename,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
}

func NewMyReportRow(uc models.UserCompany) MyReportRow {
	row := MyReportRow{
		ID:          uc.ID,
		ISIN:        uc.Company.ISIN,
		CompanyName: uc.Company.CompanyName,
		Sector:      uc.Company.Sector,
		ESGSector:   uc.Company.ESGSector,
		ESGRating:   uc.Company.ESGRating,
		AssignedAt:  uc.AssignedAt.Format(time.RFC3339),
		Notes:       uc.Notes,
	}

	if uc.Company.HasPDFReport {
		row.ReportFilename = uc.Company.PDFFilename
	}
	row.DownloadURL = uc.Company.ReportDownloadURL()

	return row
}

type ReportResponse struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Year        int    `json:"year"`
	Rating      string `json:"rating"`
	ReportURL   string `json:"report_url"`
	ReportFile  string `json:"report_file"`
	CreatedAt   string `json:"created_at"`
	IsActive    bool   `json:"is_active"`
}

func NewReportResponse(r models.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		CompanyName: r.CompanyName,
		Sector:      r.Sector,
		Year:        r.Year,
		Rating:      r.Rating,
		ReportURL:   r.ReportURL,
		ReportFile:  r.ReportFile,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		IsActive:    r.IsActive,
	}
}

// UserReportRow is one entitled standalone report, flattened for listing.
type UserReportRow struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	Year        int    `json:"year"`
	Rating      string `json:"rating"`
	ReportURL   string `json:"report_url"`
	ReportFile  string `json:"report_file"`
	AssignedAt  string `json:"assigned_at"`
}

func NewUserReportRow(ur models.UserReport) UserReportRow {
	return UserReportRow{
		ID:          ur.ID,
		CompanyName: ur.Report.CompanyName,
		Sector:      ur.Report.Sector,
		Year:        ur.Report.Year,
		Rating:      ur.Report.Rating,
		ReportURL:   ur.Report.ReportURL,
		ReportFile:  ur.Report.ReportFile,
		AssignedAt:  ur.AssignedAt.Format(time.RFC3339),
	}
}

type FundResponse struct {
	ID         uint     `json:"id"`
	FundName   string   `json:"fund_name"`
	Score      *float64 `json:"score"`
	Percentage string   `json:"percentage"`
	Grade      string   `json:"grade"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func NewFundResponse(f models.Fund) FundResponse {
	return FundResponse{
		ID:         f.ID,
		FundName:   f.FundName,
		Score:      f.Score,
		Percentage: f.Percentage,
		Grade:      f.Grade,
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  f.UpdatedAt.Format(time.RFC3339),
	}
}

type PurchaseLogResponse struct {
	ID             uint   `json:"id"`
	UserID         *uint  `json:"user"`
	Username       string `json:"username"`
	UserIDRecorded *int   `json:"user_id_recorded"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Organization   string `json:"organization"`
	JobTitle       string `json:"job_title"`
	PhoneNumber    string `json:"phone_number"`
	Email          string `json:"email"`
	CompanyName    string `json:"company_name"`
	Timestamp      string `json:"timestamp"`
}

func NewPurchaseLogResponse(p models.PurchaseLog) PurchaseLogResponse {
	resp := PurchaseLogResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		Username:       p.DisplayName(),
		UserIDRecorded: p.UserIDRecorded,
		CompanyName:    p.CompanyName,
		Timestamp:      p.Timestamp.Format(time.RFC3339),
	}

	if p.User != nil {
		resp.FirstName = p.User.FirstName
		resp.LastName = p.User.LastName
		resp.Organization = p.User.Organization
		resp.JobTitle = p.User.JobTitle
		resp.PhoneNumber = p.User.PhoneNumber
		resp.Email = p.User.Email
		return resp
	}

	// The account is gone; fall back to the identity captured at write time.
	var snapshot models.UserSnapshotData
	if len(p.UserSnapshot) > 0 && json.Unmarshal(p.UserSnapshot, &snapshot) == nil {
		resp.FirstName = snapshot.FirstName
		resp.LastName = snapshot.LastName
		resp.Organization = snapshot.Organization
		resp.JobTitle = snapshot.JobTitle
		resp.PhoneNumber = snapshot.PhoneNumber
		resp.Email = snapshot.Email
	}

	return resp
}

type TagResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ArticleResponse struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Category        string        `json:"category"`
	PublicationDate string        `json:"publication_date"`
	MainImage       string        `json:"main_image,omitempty"`
	Content         string        `json:"content"`
	Tags            []TagResponse `json:"tags"`
	ExternalLink    string        `json:"external_link,omitempty"`
}

func NewArticleResponse(a models.Article) ArticleResponse {
	tags := make([]TagResponse, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, TagResponse{Name: t.Name, Slug: t.Slug})
	}

	return ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Category:        a.Category,
		PublicationDate: a.PublicationDate.Format(PublicationDateFormat),
		MainImage:       a.MainImage,
		Content:         a.Content,
		Tags:            tags,
		ExternalLink:    a.ExternalLink,
	}
}

// PortfolioHolding projects one holding together with read-only ESG fields
// from the linked company. esg_composite and esg_rating are never stored on
// the holding itself.
type PortfolioHolding struct {
	ID           uint     `json:"id"`
	CompanyName  string   `json:"company_name"`
	ISIN         string   `json:"isin"`
	AUMValue     *float64 `json:"aum_value"`
	ESGComposite *float64 `json:"esg_composite"`
	ESGRating    string   `json:"esg_rating"`
}

func NewPortfolioHolding(pc models.PortfolioCompany) PortfolioHolding {
	h := PortfolioHolding{
		ID:          pc.ID,
		CompanyName: pc.Company.CompanyName,
		ISIN:        pc.Company.ISIN,
		AUMValue:    pc.AUMValue,
		ESGRating:   pc.Company.Grade,
	}

	if score, err := strconv.ParseFloat(pc.Company.ESGScore, 64); err == nil {
		h.ESGComposite = &score
	}

	return h
}

type PortfolioResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Companies []PortfolioHolding `json:"companies"`
}

func NewPortfolioResponse(p models.Portfolio) PortfolioResponse {
	holdings := make([]PortfolioHolding, 0, len(p.Companies))
	for _, pc := range p.Companies {
		holdings = append(holdings, NewPortfolioHolding(pc))
	}

	return PortfolioResponse{
		ID:        p.ID,
		Name:      p.Name,
		Companies: holdings,
	}
}
