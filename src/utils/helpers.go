package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"tbs/src/config"
	"tbs/src/lib"
	"time"

	awslib "tbs/src/lib/aws"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"

	"tbs/src/types"
)

// WithSuffix appends the environment name to a queue or topic name so
// that local, test and production never share a queue.
func WithSuffix(name string) string {
	env := config.API_ENV
	if env == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, env)
}

// NewTxnID returns a fresh gateway transaction reference.
func NewTxnID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func IssueBookingToken(bookingID uint, email string) (string, error) {
	secret := os.Getenv("BOOKING_TOKEN_SECRET")
	now := time.Now()
	claims := types.BookingClaims{
		BookingID: bookingID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(bookingID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(secret))
}

func ParseBookingToken(tokenString string) (*types.BookingClaims, error) {
	secret := os.Getenv("BOOKING_TOKEN_SECRET")
	var claims types.BookingClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims, nil
}

// GenerateReceiptQR renders a QR image encoding the booking reference,
// uploads it and returns a presigned URL. The URL is cached for the
// lifetime of the link.
func GenerateReceiptQR(bookingID uint, txnID string) (*string, error) {
	rawData := map[string]any{
		"bookingId": bookingID,
		"txnid":     txnID,
	}
	rawBytes, _ := json.Marshal(rawData)
	rawText := string(rawBytes)

	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return nil, err
	}
	encryptedMessage, err := EncryptMessage(key, rawText)
	if err != nil {
		log.Printf("Error encrypting message: %s\n", err.Error())
		return nil, err
	}
	qrc, err := qrcode.New(encryptedMessage)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filename := fmt.Sprintf("receipt_%d", bookingID)
	filepath := path.Join(wd, tempdir, fmt.Sprintf("%s.png", filename))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return nil, err
	}
	url, err := awslib.S3UploadAsset(filename, filepath)
	if err != nil {
		log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	rd := lib.GetRedisClient()
	if rd != nil {
		rd.SetEx(context.Background(), filename, *url, 2*time.Hour)
	}
	return url, nil
}

// DecodeReceiptQR reverses GenerateReceiptQR, recovering the booking
// reference embedded in a scanned receipt code.
func DecodeReceiptQR(encrypted string) (uint, string, error) {
	key, err := hex.DecodeString(os.Getenv("API_QRC_SECRET"))
	if err != nil {
		return 0, "", err
	}
	plain, err := DecryptMessage(key, encrypted)
	if err != nil {
		return 0, "", err
	}
	var data struct {
		BookingID uint   `json:"bookingId"`
		TxnID     string `json:"txnid"`
	}
	if err := json.Unmarshal([]byte(*plain), &data); err != nil {
		return 0, "", err
	}
	return data.BookingID, data.TxnID, nil
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
