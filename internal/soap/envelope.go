// Package soap talks to the Beacukai SOAP 1.1 services.
package soap

import (
	"encoding/base64"
	"strings"

	"github.com/beevik/etree"
)

const (
	EnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	ServiceNS  = "http://services.beacukai.go.id/"

	UploadOperation = "CoCoTangki"
	StatusOperation = "GetResponPlp"
)

// UploadRequest is the body of the CoCoTangki upload operation
type UploadRequest struct {
	Username string
	Password string
	Filename string
	Payload  []byte
}

// StatusRequest asks the authority for the response to a submitted document
type StatusRequest struct {
	Username  string
	Password  string
	RefNumber string
}

// BuildUploadEnvelope wraps the XML payload as a base64 CDATA file stream.
//
// SECURITY: the authority authenticates with Username/Password inside the
// SOAP body, so the decrypted secret is part of the request payload. Never
// persist or log the envelope as built; use Redact first.
func BuildUploadEnvelope(req UploadRequest) ([]byte, error) {
	doc, body := newEnvelope()

	op := body.CreateElement("ser:" + UploadOperation)
	op.CreateElement("fStream").CreateCData(base64.StdEncoding.EncodeToString(req.Payload))
	op.CreateElement("Username").SetText(req.Username)
	op.CreateElement("Password").SetText(req.Password)
	op.CreateElement("fileName").SetText(req.Filename)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// BuildStatusEnvelope builds the status inquiry for one ref number
func BuildStatusEnvelope(req StatusRequest) ([]byte, error) {
	doc, body := newEnvelope()

	op := body.CreateElement("ser:" + StatusOperation)
	op.CreateElement("Username").SetText(req.Username)
	op.CreateElement("Password").SetText(req.Password)
	op.CreateElement("refNumber").SetText(req.RefNumber)

	doc.Indent(2)
	return doc.WriteToBytes()
}

func newEnvelope() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soap:Envelope")
	env.CreateAttr("xmlns:soap", EnvelopeNS)
	env.CreateAttr("xmlns:ser", ServiceNS)
	env.CreateElement("soap:Header")
	return doc, env.CreateElement("soap:Body")
}

// Redact replaces the Password element of an envelope so it can be stored
func Redact(envelope []byte) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(envelope); err != nil {
		return string(envelope)
	}
	for _, el := range doc.FindElements("//*[local-name()='Password']") {
		el.SetText("********")
	}
	out, err := doc.WriteToString()
	if err != nil {
		return string(envelope)
	}
	return out
}

// ExtractResult returns the <operation>Result text of a response, or the
// trimmed body when the element is absent.
func ExtractResult(body []byte, operation string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return strings.TrimSpace(string(body))
	}
	if el := doc.FindElement("//*[local-name()='" + operation + "Result']"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return strings.TrimSpace(string(body))
}

// parseFault extracts a SOAP 1.1 or 1.2 fault from a response body
func parseFault(body []byte) (code, message string, ok bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", "", false
	}
	fault := doc.FindElement("//*[local-name()='Fault']")
	if fault == nil {
		return "", "", false
	}

	// SOAP 1.1
	if el := fault.FindElement("./*[local-name()='faultcode']"); el != nil {
		code = strings.TrimSpace(el.Text())
	}
	if el := fault.FindElement("./*[local-name()='faultstring']"); el != nil {
		message = strings.TrimSpace(el.Text())
	}

	// SOAP 1.2
	if code == "" {
		if el := fault.FindElement(".//*[local-name()='Code']/*[local-name()='Value']"); el != nil {
			code = strings.TrimSpace(el.Text())
		}
	}
	if message == "" {
		if el := fault.FindElement(".//*[local-name()='Reason']/*[local-name()='Text']"); el != nil {
			message = strings.TrimSpace(el.Text())
		}
	}
	return code, message, true
}
