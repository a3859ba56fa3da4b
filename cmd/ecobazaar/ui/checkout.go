package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ecobazaar/internal/cart"
	"ecobazaar/internal/checkout"
	"ecobazaar/internal/types"
)

// Field indexes for the address form.
const (
	addrFirstName = iota
	addrLastName
	addrLine1
	addrLine2
	addrCity
	addrState
	addrZip
	addrCountry
	addressFieldCount
)

// Field indexes for the payment form.
const (
	payCardName = iota
	payCardNumber
	payExpDate
	payCVV
	paymentFieldCount
)

type orderPlacedMsg struct {
	order types.Order
}

type orderFailedMsg struct {
	err error
}

// CheckoutModel is the interactive address -> payment -> review wizard.
// It drives a checkout.Flow; all step rules live in the flow, the model
// only collects input and renders.
type CheckoutModel struct {
	flow    *checkout.Flow
	carts   *cart.Store
	timeout time.Duration
	styles  Styles

	inputs  []textinput.Model
	focus   int
	errMsg  string
	placing bool

	confirmed bool
	order     types.Order
}

// NewCheckoutModel builds the wizard over an already-entered flow. The
// timeout bounds the order placement request.
func NewCheckoutModel(flow *checkout.Flow, carts *cart.Store, timeout time.Duration) CheckoutModel {
	m := CheckoutModel{
		flow:    flow,
		carts:   carts,
		timeout: timeout,
		styles:  DefaultStyles(),
	}
	m.inputs = m.addressInputs()
	return m
}

// Confirmed reports whether the wizard ended with a placed order.
func (m CheckoutModel) Confirmed() bool { return m.confirmed }

// Order returns the placed order. Only meaningful when Confirmed is true.
func (m CheckoutModel) Order() types.Order { return m.order }

func (m CheckoutModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m CheckoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case orderPlacedMsg:
		m.placing = false
		m.confirmed = true
		m.order = msg.order
		return m, tea.Quit

	case orderFailedMsg:
		// The flow stays at REVIEW; the user can retry or back out.
		m.placing = false
		m.errMsg = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.placing {
			// Ignore input while the request is in flight.
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "ctrl+b":
			return m.goBack(), nil
		case "enter":
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m CheckoutModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Checkout"))
	sb.WriteString("\n")
	sb.WriteString(m.stepBar())
	sb.WriteString("\n\n")

	switch m.flow.Step() {
	case checkout.StepAddress:
		sb.WriteString(m.formView(addressLabels()))
		sb.WriteString("\n" + m.styles.Muted.Render("enter: continue · tab: next field · esc: abandon"))
	case checkout.StepPayment:
		sb.WriteString(m.formView(paymentLabels()))
		sb.WriteString("\n" + m.styles.Muted.Render("enter: continue · ctrl+b: back · esc: abandon"))
	case checkout.StepReview:
		sb.WriteString(m.reviewView())
		if m.placing {
			sb.WriteString("\n" + m.styles.Prompt.Render("Placing order..."))
		} else {
			sb.WriteString("\n" + m.styles.Muted.Render("enter: place order · ctrl+b: back · esc: abandon"))
		}
	case checkout.StepConfirmed:
		sb.WriteString(m.styles.Success.Render("Order placed!"))
	}

	if m.errMsg != "" {
		sb.WriteString("\n\n" + m.styles.Error.Render(m.errMsg))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m CheckoutModel) submit() (tea.Model, tea.Cmd) {
	m.errMsg = ""
	switch m.flow.Step() {
	case checkout.StepAddress:
		// Not on the last field yet: enter behaves like tab.
		if m.focus < len(m.inputs)-1 {
			return m.moveFocus(1), nil
		}
		m.collectAddress()
		if err := m.flow.Next(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.inputs = m.paymentInputs()
		m.focus = 0
		return m, textinput.Blink

	case checkout.StepPayment:
		if m.focus < len(m.inputs)-1 {
			return m.moveFocus(1), nil
		}
		m.collectPayment()
		if err := m.flow.Next(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.inputs = nil
		return m, nil

	case checkout.StepReview:
		m.placing = true
		return m, m.placeOrderCmd()
	}
	return m, nil
}

func (m CheckoutModel) goBack() CheckoutModel {
	m.errMsg = ""
	switch m.flow.Step() {
	case checkout.StepPayment:
		m.collectPayment()
		m.flow.Back()
		m.inputs = m.addressInputs()
		m.focus = 0
	case checkout.StepReview:
		m.flow.Back()
		m.inputs = m.paymentInputs()
		m.focus = 0
	}
	return m
}

func (m CheckoutModel) placeOrderCmd() tea.Cmd {
	flow, timeout := m.flow, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		order, err := flow.PlaceOrder(ctx)
		if err != nil {
			return orderFailedMsg{err: err}
		}
		return orderPlacedMsg{order: order}
	}
}

func (m CheckoutModel) moveFocus(delta int) CheckoutModel {
	if len(m.inputs) == 0 {
		return m
	}
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m CheckoutModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *CheckoutModel) collectAddress() {
	m.flow.Address = types.Address{
		FirstName: m.inputs[addrFirstName].Value(),
		LastName:  m.inputs[addrLastName].Value(),
		Address1:  m.inputs[addrLine1].Value(),
		Address2:  m.inputs[addrLine2].Value(),
		City:      m.inputs[addrCity].Value(),
		State:     m.inputs[addrState].Value(),
		Zip:       m.inputs[addrZip].Value(),
		Country:   m.inputs[addrCountry].Value(),
	}
}

func (m *CheckoutModel) collectPayment() {
	m.flow.Payment = checkout.PaymentDetails{
		CardName:   m.inputs[payCardName].Value(),
		CardNumber: m.inputs[payCardNumber].Value(),
		ExpDate:    m.inputs[payExpDate].Value(),
		CVV:        m.inputs[payCVV].Value(),
	}
}

func (m CheckoutModel) addressInputs() []textinput.Model {
	inputs := make([]textinput.Model, addressFieldCount)
	placeholders := [addressFieldCount]string{
		"First name", "Last name", "Street address", "Apt, suite (optional)",
		"City", "State", "ZIP", "Country",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 80
		ti.Width = 40
		inputs[i] = ti
	}
	// Re-entering the form keeps what was already typed.
	addr := m.flow.Address
	values := [addressFieldCount]string{
		addr.FirstName, addr.LastName, addr.Address1, addr.Address2,
		addr.City, addr.State, addr.Zip, addr.Country,
	}
	for i, v := range values {
		inputs[i].SetValue(v)
	}
	inputs[0].Focus()
	return inputs
}

func (m CheckoutModel) paymentInputs() []textinput.Model {
	inputs := make([]textinput.Model, paymentFieldCount)
	placeholders := [paymentFieldCount]string{
		"Name on card", "Card number", "MM/YY", "CVV",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 40
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[payCardNumber].EchoMode = textinput.EchoPassword
	inputs[payCVV].EchoMode = textinput.EchoPassword
	pay := m.flow.Payment
	values := [paymentFieldCount]string{
		pay.CardName, pay.CardNumber, pay.ExpDate, pay.CVV,
	}
	for i, v := range values {
		inputs[i].SetValue(v)
	}
	inputs[0].Focus()
	return inputs
}

func addressLabels() []string {
	return []string{
		"First name", "Last name", "Address", "Address 2",
		"City", "State", "ZIP", "Country",
	}
}

func paymentLabels() []string {
	return []string{"Name on card", "Card number", "Expires", "CVV"}
}

func (m CheckoutModel) formView(labels []string) string {
	var sb strings.Builder
	for i, input := range m.inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		style := m.styles.Muted
		if i == m.focus {
			style = m.styles.Prompt
		}
		sb.WriteString(fmt.Sprintf("%s\n%s\n", style.Render(label), input.View()))
	}
	return sb.String()
}

func (m CheckoutModel) reviewView() string {
	var sb strings.Builder

	table := NewTable("Order summary", []string{"Name", "Qty", "Subtotal"})
	for _, l := range m.carts.Lines() {
		table.AddRow(l.Name, fmt.Sprintf("%d", l.Quantity), fmt.Sprintf("₹%.2f", l.Price*float64(l.Quantity)))
	}
	sb.WriteString(table.View(m.styles))
	sb.WriteString(m.styles.Bold.Render(fmt.Sprintf("Total: ₹%.2f", m.carts.Total())))
	sb.WriteString("\n\n")

	addr := m.flow.Address
	sb.WriteString(m.styles.Subtitle.Render("Ship to") + "\n")
	sb.WriteString(fmt.Sprintf("%s %s\n%s\n", addr.FirstName, addr.LastName, addr.Address1))
	if addr.Address2 != "" {
		sb.WriteString(addr.Address2 + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s, %s %s\n%s\n\n", addr.City, addr.State, addr.Zip, addr.Country))

	sb.WriteString(m.styles.Subtitle.Render("Payment") + "\n")
	sb.WriteString(fmt.Sprintf("%s · card ending %s\n", m.flow.Payment.CardName, lastDigits(m.flow.Payment.CardNumber, 4)))

	return sb.String()
}

func (m CheckoutModel) stepBar() string {
	steps := []checkout.Step{checkout.StepAddress, checkout.StepPayment, checkout.StepReview}
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		label := s.String()
		if s == m.flow.Step() {
			parts = append(parts, m.styles.Badge.Render(label))
		} else {
			parts = append(parts, m.styles.Muted.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render(" > "))
}

func lastDigits(s string, n int) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
