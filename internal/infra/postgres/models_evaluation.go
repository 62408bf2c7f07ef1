package postgres

import (
	"time"

	"qayeem-service/internal/domain"
)

// EvaluationModel is the GORM model for the evaluations table.
type EvaluationModel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	Title         string `gorm:"type:varchar(500);not null"`
	TitleAr       string `gorm:"type:varchar(500)"`
	Description   string `gorm:"type:text"`
	DescriptionAr string `gorm:"type:text"`
	Status        string `gorm:"type:varchar(20);not null;index"`
	Type          string `gorm:"type:varchar(30);not null"`

	PracticesPercentage float64 `gorm:"type:decimal(5,2);default:0"`
	PatternsPercentage  float64 `gorm:"type:decimal(5,2);default:0"`

	Criteria []*CriterionModel `gorm:"foreignKey:EvaluationID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for EvaluationModel.
func (EvaluationModel) TableName() string {
	return "evaluations"
}

// ToDomain converts EvaluationModel to domain.Evaluation.
func (m *EvaluationModel) ToDomain() *domain.Evaluation {
	e := &domain.Evaluation{
		ID:                  m.ID,
		Title:               m.Title,
		TitleAr:             m.TitleAr,
		Description:         m.Description,
		DescriptionAr:       m.DescriptionAr,
		Status:              domain.EvaluationStatus(m.Status),
		Type:                domain.EvaluationType(m.Type),
		PracticesPercentage: m.PracticesPercentage,
		PatternsPercentage:  m.PatternsPercentage,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	for _, c := range m.Criteria {
		e.Criteria = append(e.Criteria, c.ToDomain())
	}

	return e
}

// EvaluationFromDomain creates an EvaluationModel from domain.Evaluation.
func EvaluationFromDomain(e *domain.Evaluation) *EvaluationModel {
	return &EvaluationModel{
		ID:                  e.ID,
		Title:               e.Title,
		TitleAr:             e.TitleAr,
		Description:         e.Description,
		DescriptionAr:       e.DescriptionAr,
		Status:              string(e.Status),
		Type:                string(e.Type),
		PracticesPercentage: e.PracticesPercentage,
		PatternsPercentage:  e.PatternsPercentage,
	}
}

// CriterionModel is the GORM model for the criteria table.
type CriterionModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	EvaluationID uint   `gorm:"not null;index"`
	Text         string `gorm:"type:text;not null"`
	TextAr       string `gorm:"type:text"`
	BookType     string `gorm:"type:varchar(20)"`
	Order        int    `gorm:"column:sort_order;default:0"`

	Weight   float64 `gorm:"type:decimal(10,2);default:1"`
	MaxScore float64 `gorm:"type:decimal(10,2);default:10"`

	QuestionPercentage float64 `gorm:"type:decimal(5,2);default:0"`
	Answer1Percentage  float64 `gorm:"type:decimal(5,2);default:0"`
	Answer2Percentage  float64 `gorm:"type:decimal(5,2);default:0"`
	Answer3Percentage  float64 `gorm:"type:decimal(5,2);default:0"`
	Answer4Percentage  float64 `gorm:"type:decimal(5,2);default:0"`
	Answer5Percentage  float64 `gorm:"type:decimal(5,2);default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CriterionModel.
func (CriterionModel) TableName() string {
	return "criteria"
}

// ToDomain converts CriterionModel to domain.Criterion.
func (m *CriterionModel) ToDomain() *domain.Criterion {
	return &domain.Criterion{
		ID:                 m.ID,
		EvaluationID:       m.EvaluationID,
		Text:               m.Text,
		TextAr:             m.TextAr,
		BookType:           domain.BookType(m.BookType),
		Order:              m.Order,
		Weight:             m.Weight,
		MaxScore:           m.MaxScore,
		QuestionPercentage: m.QuestionPercentage,
		Answer1Percentage:  m.Answer1Percentage,
		Answer2Percentage:  m.Answer2Percentage,
		Answer3Percentage:  m.Answer3Percentage,
		Answer4Percentage:  m.Answer4Percentage,
		Answer5Percentage:  m.Answer5Percentage,
	}
}

// CriterionFromDomain creates a CriterionModel from domain.Criterion.
func CriterionFromDomain(c *domain.Criterion) *CriterionModel {
	return &CriterionModel{
		ID:                 c.ID,
		EvaluationID:       c.EvaluationID,
		Text:               c.Text,
		TextAr:             c.TextAr,
		BookType:           string(c.BookType),
		Order:              c.Order,
		Weight:             c.Weight,
		MaxScore:           c.MaxScore,
		QuestionPercentage: c.QuestionPercentage,
		Answer1Percentage:  c.Answer1Percentage,
		Answer2Percentage:  c.Answer2Percentage,
		Answer3Percentage:  c.Answer3Percentage,
		Answer4Percentage:  c.Answer4Percentage,
		Answer5Percentage:  c.Answer5Percentage,
	}
}

// RatingModel is the GORM model for the ratings table. One row per
// (evaluation, user) pair.
type RatingModel struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	EvaluationID uint    `gorm:"not null;index:idx_evaluation_user,unique"`
	UserID       uint    `gorm:"not null;index:idx_evaluation_user,unique"`
	Status       string  `gorm:"type:varchar(20);not null;index"`
	TotalScore   float64 `gorm:"type:decimal(10,2);default:0"`

	Evaluation *EvaluationModel   `gorm:"foreignKey:EvaluationID"`
	Items      []*RatingItemModel `gorm:"foreignKey:RatingID"`

	SubmittedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for RatingModel.
func (RatingModel) TableName() string {
	return "ratings"
}

// ToDomain converts RatingModel to domain.Rating.
func (m *RatingModel) ToDomain() *domain.Rating {
	r := &domain.Rating{
		ID:           m.ID,
		EvaluationID: m.EvaluationID,
		UserID:       m.UserID,
		Status:       domain.RatingStatus(m.Status),
		TotalScore:   m.TotalScore,
		SubmittedAt:  m.SubmittedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Evaluation != nil {
		r.Evaluation = m.Evaluation.ToDomain()
	}
	for _, item := range m.Items {
		r.Items = append(r.Items, item.ToDomain())
	}

	return r
}

// RatingFromDomain creates a RatingModel from domain.Rating. Items are
// persisted separately.
func RatingFromDomain(r *domain.Rating) *RatingModel {
	return &RatingModel{
		ID:           r.ID,
		EvaluationID: r.EvaluationID,
		UserID:       r.UserID,
		Status:       string(r.Status),
		TotalScore:   r.TotalScore,
		SubmittedAt:  r.SubmittedAt,
	}
}

// RatingItemModel is the GORM model for the rating_items table.
type RatingItemModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	RatingID    uint   `gorm:"not null;index"`
	CriterionID uint   `gorm:"not null;index"`
	Score       int    `gorm:"not null"`
	Comment     string `gorm:"type:text"`
	CommentAr   string `gorm:"type:text"`

	Criterion *CriterionModel `gorm:"foreignKey:CriterionID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for RatingItemModel.
func (RatingItemModel) TableName() string {
	return "rating_items"
}

// ToDomain converts RatingItemModel to domain.RatingItem.
func (m *RatingItemModel) ToDomain() *domain.RatingItem {
	item := &domain.RatingItem{
		ID:          m.ID,
		RatingID:    m.RatingID,
		CriterionID: m.CriterionID,
		Score:       m.Score,
		Comment:     m.Comment,
		CommentAr:   m.CommentAr,
	}
	if m.Criterion != nil {
		item.Criterion = m.Criterion.ToDomain()
	}

	return item
}

// BookEvaluationModel is the GORM model for the book_evaluations table.
// Exactly one of BookID and BookType is set: a direct link targets one
// book, a type link targets every book of that type.
type BookEvaluationModel struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	EvaluationID uint    `gorm:"not null;index"`
	BookID       *uint   `gorm:"index"`
	BookType     *string `gorm:"type:varchar(20);index"`

	IsRequired         bool    `gorm:"default:false"`
	MinScorePercentage float64 `gorm:"type:decimal(5,2);default:0"`
	Order              int     `gorm:"column:sort_order;default:0"`

	Evaluation *EvaluationModel `gorm:"foreignKey:EvaluationID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for BookEvaluationModel.
func (BookEvaluationModel) TableName() string {
	return "book_evaluations"
}

// ToDomain converts BookEvaluationModel to domain.BookEvaluation.
func (m *BookEvaluationModel) ToDomain() *domain.BookEvaluation {
	be := &domain.BookEvaluation{
		ID:                 m.ID,
		EvaluationID:       m.EvaluationID,
		IsRequired:         m.IsRequired,
		MinScorePercentage: m.MinScorePercentage,
		Order:              m.Order,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.BookID != nil {
		be.Target = domain.DirectTarget(*m.BookID)
	} else if m.BookType != nil {
		be.Target = domain.TypeTarget(domain.BookType(*m.BookType))
	}
	if m.Evaluation != nil {
		be.Evaluation = m.Evaluation.ToDomain()
	}

	return be
}

// LinkFromDomain creates a BookEvaluationModel from domain.BookEvaluation.
func LinkFromDomain(be *domain.BookEvaluation) *BookEvaluationModel {
	model := &BookEvaluationModel{
		ID:                 be.ID,
		EvaluationID:       be.EvaluationID,
		IsRequired:         be.IsRequired,
		MinScorePercentage: be.MinScorePercentage,
		Order:              be.Order,
	}
	if id, ok := be.Target.BookID(); ok {
		model.BookID = &id
	} else if bt, ok := be.Target.BookType(); ok {
		s := string(bt)
		model.BookType = &s
	}

	return model
}
