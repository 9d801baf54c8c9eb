package service

import (
	"fmt"
	"math"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
)

// reviewRule - требования категории отзыва
type reviewRule struct {
	reviewType   entity.ReviewType
	reviewerType entity.AccountType
	subjectType  entity.AccountType
	flagColumn   string
	scale        int
}

var reviewRules = map[entity.ReviewCategory]reviewRule{
	entity.CategoryWorkplace: {
		reviewType:   entity.ReviewEmployeeToBusiness,
		reviewerType: entity.AccountTypePrivate,
		subjectType:  entity.AccountTypeBusiness,
		flagColumn:   repository.FlagEmployeesEnabled,
		scale:        5,
	},
	entity.CategoryEmployee: {
		reviewType:   entity.ReviewBusinessToEmployee,
		reviewerType: entity.AccountTypeBusiness,
		subjectType:  entity.AccountTypePrivate,
		flagColumn:   repository.FlagEmployersEnabled,
		scale:        5,
	},
	entity.CategoryService: {
		reviewType:   entity.ReviewCustomerToEmployee,
		reviewerType: entity.AccountTypePrivate,
		subjectType:  entity.AccountTypeBusiness,
		flagColumn:   repository.FlagCustomersEnabled,
		scale:        10,
	},
}

func ruleFor(category entity.ReviewCategory) (reviewRule, bool) {
	rule, ok := reviewRules[category]
	return rule, ok
}

// ScaleFor возвращает шкалу оценки категории; 0 для неизвестной категории
func ScaleFor(category entity.ReviewCategory) int {
	return reviewRules[category].scale
}

// flagValue - флаг видимости категории на профиле субъекта
func flagValue(subject *entity.Profile, column string) *bool {
	switch column {
	case repository.FlagEmployeesEnabled:
		return subject.ReviewsFromEmployeesEnabled
	case repository.FlagEmployersEnabled:
		return subject.ReviewsFromEmployersEnabled
	case repository.FlagCustomersEnabled:
		return subject.ReviewsFromCustomersEnabled
	}
	return nil
}

// CheckEligibility проверяет право reviewer оставить отзыв subject в категории.
// reviewer == nil означает анонимного пользователя.
func CheckEligibility(reviewer *entity.Session, subject *entity.Profile, category entity.ReviewCategory) entity.Eligibility {
	result := entity.Eligibility{Category: category}

	rule, ok := ruleFor(category)
	if !ok {
		result.Reason = entity.ReasonUnknownCategory
		return result
	}
	result.ReviewType = rule.reviewType
	result.Scale = rule.scale

	switch {
	case reviewer == nil || reviewer.UserID == "":
		result.Reason = entity.ReasonAuthRequired
	case subject != nil && reviewer.UserID == subject.ID:
		result.Reason = entity.ReasonSelfReview
	case reviewer.AccountType != rule.reviewerType:
		result.Reason = entity.ReasonReviewerType
	case subject == nil || subject.AccountType != rule.subjectType:
		result.Reason = entity.ReasonSubjectType
	case !entity.FlagEnabled(flagValue(subject, rule.flagColumn)):
		result.Reason = entity.ReasonReviewsDisabled
	default:
		result.Allowed = true
	}

	return result
}

// ValidateRating проверяет оценку по шкале категории
func ValidateRating(category entity.ReviewCategory, rating int) error {
	rule, ok := ruleFor(category)
	if !ok {
		return fmt.Errorf("%w: unknown review category %q", ErrValidation, category)
	}
	if rating < 1 || rating > rule.scale {
		return fmt.Errorf("%w: rating must be between 1 and %d", ErrRatingOutOfRange, rule.scale)
	}
	return nil
}

// Summarize считает агрегат оценок: среднее 0 без отзывов,
// звезды - ближайшее целое к среднему в пределах [0, scale]
func Summarize(category entity.ReviewCategory, ratings []int) entity.ReviewSummary {
	rule, _ := ruleFor(category)

	summary := entity.ReviewSummary{
		Category:   category,
		ReviewType: rule.reviewType,
		Count:      len(ratings),
		Scale:      rule.scale,
	}

	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		summary.Average = float64(sum) / float64(len(ratings))
	}

	summary.AverageDisplay = fmt.Sprintf("%.1f", summary.Average)

	stars := int(math.Round(summary.Average))
	if stars < 0 {
		stars = 0
	}
	if stars > rule.scale {
		stars = rule.scale
	}
	summary.Stars = stars

	return summary
}

// categoriesForSubject - категории, в которых субъект может получать отзывы
// с учетом типа аккаунта и флагов видимости
func categoriesForSubject(subject *entity.Profile) []entity.ReviewCategory {
	categories := make([]entity.ReviewCategory, 0, len(reviewRules))
	for _, category := range entity.Categories() {
		rule := reviewRules[category]
		if subject.AccountType != rule.subjectType {
			continue
		}
		if !entity.FlagEnabled(flagValue(subject, rule.flagColumn)) {
			continue
		}
		categories = append(categories, category)
	}
	return categories
}
