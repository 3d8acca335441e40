package repository

import (
	"os"
	"strconv"
	"sync"
	"time"

	"mccb-go/internal/models"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// CustomerStore keeps registration submissions in a flat XML file. The file
// is the interchange format consumed by the desktop import tooling, so the
// layout must stay exactly <customers><customer>...</customer></customers>.
type CustomerStore struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

func NewCustomerStore(path string, log *zap.Logger) *CustomerStore {
	return &CustomerStore{path: path, log: log}
}

// Add appends a customer, assigning the next sequential ID, and rewrites the
// file. The whole file is small; rewriting beats partial-update bookkeeping.
func (s *CustomerStore) Add(customer models.Customer) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.loadLocked()
	if err != nil {
		return customer, err
	}

	customer.ID = len(customers) + 1
	if customer.Timestamp == "" {
		customer.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	customers = append(customers, customer)

	if err := s.saveLocked(customers); err != nil {
		return customer, err
	}

	s.log.Info("Customer registered",
		zap.Int("id", customer.ID),
		zap.String("email", customer.Email))
	return customer, nil
}

// List returns all stored customers.
func (s *CustomerStore) List() ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// RawXML returns the file contents verbatim for the raw download endpoint.
// A missing file reads as an empty document rather than an error.
func (s *CustomerStore) RawXML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return `<?xml version="1.0" encoding="UTF-8"?>` + "\n<customers>\n</customers>\n", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *CustomerStore) loadLocked() ([]models.Customer, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var customers []models.Customer
	for _, el := range doc.FindElements("//customers/customer") {
		id, _ := strconv.Atoi(childText(el, "id"))
		customers = append(customers, models.Customer{
			ID:         id,
			Name:       childText(el, "name"),
			Surname:    childText(el, "surname"),
			Email:      childText(el, "email"),
			Newsletter: childText(el, "newsletter") == "true",
			Timestamp:  childText(el, "timestamp"),
		})
	}
	return customers, nil
}

func (s *CustomerStore) saveLocked(customers []models.Customer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("customers")

	for _, c := range customers {
		el := root.CreateElement("customer")
		el.CreateElement("id").SetText(strconv.Itoa(c.ID))
		el.CreateElement("name").SetText(c.Name)
		el.CreateElement("surname").SetText(c.Surname)
		el.CreateElement("email").SetText(c.Email)
		el.CreateElement("newsletter").SetText(strconv.FormatBool(c.Newsletter))
		el.CreateElement("timestamp").SetText(c.Timestamp)
	}

	doc.Indent(4)
	return doc.WriteToFile(s.path)
}

func childText(el *etree.Element, name string) string {
	if child := el.SelectElement(name); child != nil {
		return child.Text()
	}
	return ""
}
