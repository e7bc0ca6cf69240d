package enum

/*----------- CheckoutStateEnum -----------*/

// CheckoutStateEnum is the orchestrator's position in the checkout flow.
// The first four values double as stepper indexes.
type CheckoutStateEnum int

const (
	DELIVERY_SELECTION CheckoutStateEnum = iota
	ADDRESS_CAPTURE
	PAYMENT_CAPTURE
	REVIEW
	SUBMITTING
	SUCCESS
	FAILED
)

func (e CheckoutStateEnum) ToString() string {
	switch e {
	case DELIVERY_SELECTION:
		return "delivery_selection"
	case ADDRESS_CAPTURE:
		return "address_capture"
	case PAYMENT_CAPTURE:
		return "payment_capture"
	case REVIEW:
		return "review"
	case SUBMITTING:
		return "submitting"
	case SUCCESS:
		return "success"
	case FAILED:
		return "failed"
	}
	return ""
}

func (e CheckoutStateEnum) String() string {
	return e.ToString()
}

func (e CheckoutStateEnum) IsValid() bool {
	return e >= DELIVERY_SELECTION && e <= FAILED
}

// IsStep reports whether e is reachable by stepper navigation.
func (e CheckoutStateEnum) IsStep() bool {
	return e >= DELIVERY_SELECTION && e <= REVIEW
}

func (e CheckoutStateEnum) IsTerminal() bool {
	return e == SUCCESS
}

/*----------- ElementKindEnum -----------*/

type ElementKindEnum string

const (
	ADDRESS_ELEMENT ElementKindEnum = "address"
	PAYMENT_ELEMENT ElementKindEnum = "payment"
)

func (e ElementKindEnum) ToString() string {
	switch e {
	case ADDRESS_ELEMENT:
		return "address"
	case PAYMENT_ELEMENT:
		return "payment"
	}
	return ""
}

func (e ElementKindEnum) IsValid() bool {
	switch e {
	case ADDRESS_ELEMENT, PAYMENT_ELEMENT:
		return true
	}
	return false
}

/*----------- PaymentIntentStatusEnum -----------*/

type PaymentIntentStatusEnum string

const (
	INTENT_REQUIRES_PAYMENT_METHOD PaymentIntentStatusEnum = "requires_payment_method"
	INTENT_PROCESSING              PaymentIntentStatusEnum = "processing"
	INTENT_REQUIRES_ACTION         PaymentIntentStatusEnum = "requires_action"
	INTENT_SUCCEEDED               PaymentIntentStatusEnum = "succeeded"
	INTENT_FAILED                  PaymentIntentStatusEnum = "failed"
)

func (e PaymentIntentStatusEnum) ToString() string {
	return string(e)
}

func (e PaymentIntentStatusEnum) IsValid() bool {
	switch e {
	case INTENT_REQUIRES_PAYMENT_METHOD, INTENT_PROCESSING, INTENT_REQUIRES_ACTION, INTENT_SUCCEEDED, INTENT_FAILED:
		return true
	}
	return false
}

// IsPending reports whether the provider may still settle the intent.
func (e PaymentIntentStatusEnum) IsPending() bool {
	return e == INTENT_PROCESSING || e == INTENT_REQUIRES_ACTION
}

/*----------- OrderStatusEnum -----------*/

type OrderStatusEnum string

const (
	ORDER_PENDING          OrderStatusEnum = "Pending"
	ORDER_PAYMENT_RECEIVED OrderStatusEnum = "PaymentReceived"
	ORDER_PAYMENT_FAILED   OrderStatusEnum = "PaymentFailed"
)

func (e OrderStatusEnum) ToString() string {
	return string(e)
}

func (e OrderStatusEnum) IsValid() bool {
	switch e {
	case ORDER_PENDING, ORDER_PAYMENT_RECEIVED, ORDER_PAYMENT_FAILED:
		return true
	}
	return false
}
