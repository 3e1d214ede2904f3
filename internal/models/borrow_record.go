package models

import "time"

// BorrowRecord is one lending of one copy. Records are closed on return,
// never deleted.
type BorrowRecord struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	BookID     int64      `json:"bookId"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate"`
	IsReturned bool       `json:"isReturned"`
}

// BorrowDetail is the my-borrows projection: the caller's record joined
// with the book it refers to.
type BorrowDetail struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"bookId"`
	BookTitle  string     `json:"bookTitle"`
	BookAuthor string     `json:"bookAuthor"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate"`
	IsReturned bool       `json:"isReturned"`
}

// BorrowSummary is the system-wide projection used by the librarian view.
type BorrowSummary struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"userId"`
	Username   string     `json:"username"`
	BookID     int64      `json:"bookId"`
	BookTitle  string     `json:"bookTitle"`
	BorrowDate time.Time  `json:"borrowDate"`
	ReturnDate *time.Time `json:"returnDate"`
	IsReturned bool       `json:"isReturned"`
}
