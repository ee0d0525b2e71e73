package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"commercelib/models"
)

var customerRequiredFields = []string{"name", "email", "phone"}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Brazilian phone numbers: two-digit nonzero area code, optional mobile
	// 9 prefix, eight digits. Formatting characters are stripped first.
	phonePattern = regexp.MustCompile(`^[1-9]{2}9?\d{8}$`)
	phoneStrip   = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "")
)

// CustomerAccessor exposes CRUD and lookup queries for the customers
// collection.
type CustomerAccessor struct {
	*Accessor[models.Customer]
}

func NewCustomerAccessor(db *mongo.Database, log Logger) *CustomerAccessor {
	return &CustomerAccessor{NewAccessor[models.Customer](db, "customers", customerRequiredFields, log)}
}

func validateCustomer(c models.Customer) error {
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return &ValidationError{Message: "invalid email"}
	}
	if c.Phone != "" && !phonePattern.MatchString(phoneStrip.Replace(c.Phone)) {
		return &ValidationError{Message: "invalid phone"}
	}
	if c.Name != "" && utf8.RuneCountInString(c.Name) < 2 {
		return &ValidationError{Message: "name must be at least 2 characters"}
	}
	return nil
}

// Create validates email, phone and name, then checks the email is not
// already registered before inserting. The lookup and the insert are two
// separate operations; the unique email index closes the remaining window,
// and a duplicate-key insert error is reported as a DuplicateError too.
func (a *CustomerAccessor) Create(ctx context.Context, customer models.Customer) (*CreateResult[models.Customer], error) {
	if err := validateCustomer(customer); err != nil {
		a.log.Error("customer validation failed", err)
		return nil, err
	}

	if customer.Email != "" {
		existing, err := a.FindByEmail(ctx, customer.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			dupErr := &DuplicateError{Field: "email", Value: customer.Email}
			a.log.Error("customer creation rejected", dupErr)
			return nil, dupErr
		}
	}

	result, err := a.Accessor.Create(ctx, customer)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		dupErr := &DuplicateError{Field: "email", Value: customer.Email}
		a.log.Error("customer creation rejected", dupErr)
		return nil, dupErr
	}
	return result, err
}

// FindByEmail returns the customer with the exact email, or (nil, nil) when
// none exists.
func (a *CustomerAccessor) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := a.coll.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		a.log.Error("failed to look up customer by email", err)
		return nil, err
	}

	a.log.Info("customer found by email: " + email)
	return &customer, nil
}

// SearchByName matches customer names containing name, case-insensitively.
func (a *CustomerAccessor) SearchByName(ctx context.Context, name string) ([]models.Customer, error) {
	filter := bson.M{"name": bson.M{"$regex": name, "$options": "i"}}
	results, err := a.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	a.log.Info(fmt.Sprintf("name search %q returned %d customers", name, len(results)))
	return results, nil
}
