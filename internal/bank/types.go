package bank

// result is the response envelope every MB Bank retail endpoint returns.
type result struct {
	Ok           bool   `json:"ok"`
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
}

type loginRequest struct {
	UserID     string `json:"userId"`
	Password   string `json:"password"`
	DeviceID   string `json:"deviceIdCommon"`
	RefNo      string `json:"refNo"`
	SessionID  string `json:"sessionId"`
	IBAuthType string `json:"ibAuthen2faString"`
}

type loginResponse struct {
	Result    result `json:"result"`
	SessionID string `json:"sessionId"`
	Cust      struct {
		AcctList []struct {
			AcctNo   string `json:"acctNo"`
			AcctNm   string `json:"acctNm"`
			Currency string `json:"ccyCd"`
		} `json:"acct_list"`
	} `json:"cust"`
}

type historyRequest struct {
	AccountNo string `json:"accountNo"`
	FromDate  string `json:"fromDate"` // "02/01/2006"
	ToDate    string `json:"toDate"`
	SessionID string `json:"sessionId"`
	RefNo     string `json:"refNo"`
	DeviceID  string `json:"deviceIdCommon"`
}

type historyResponse struct {
	Result                 result          `json:"result"`
	TransactionHistoryList []historyRecord `json:"transactionHistoryList"`
}

// historyRecord mirrors the wire shape: amounts arrive as plain digit
// strings, dates as "dd/MM/yyyy HH:mm:ss".
type historyRecord struct {
	RefNo           string `json:"refNo"`
	PostingDate     string `json:"postingDate"`
	TransactionDate string `json:"transactionDate"`
	CreditAmount    string `json:"creditAmount"`
	DebitAmount     string `json:"debitAmount"`
	Description     string `json:"description"`
	TransactionType string `json:"transactionType"`
	Currency        string `json:"transactionCurrency"`
}

type balanceRequest struct {
	SessionID string `json:"sessionId"`
	RefNo     string `json:"refNo"`
	DeviceID  string `json:"deviceIdCommon"`
}

type balanceResponse struct {
	Result      result `json:"result"`
	AcctListRes struct {
		AcctList []struct {
			AcctNo         string `json:"acctNo"`
			AcctNm         string `json:"acctNm"`
			CurrentBalance string `json:"currentBalance"`
			Currency       string `json:"ccyCd"`
		} `json:"acct_list"`
	} `json:"acct_list_res"`
}
