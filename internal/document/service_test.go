package document_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/claim"
	"github.com/smkhize/claims-management/internal/document"
	documentMemory "github.com/smkhize/claims-management/internal/document/memory"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

// stubClaims answers existence checks for a single known claim id.
type stubClaims struct {
	known int64
}

func (s *stubClaims) GetClaim(id int64) (*claim.Claim, error) {
	if id == s.known {
		return &claim.Claim{ID: id, LecturerName: "Thandi Mokoena"}, nil
	}
	return nil, internal.ErrClaimNotFound
}

var _ = Describe("Document Service", func() {
	var (
		service *document.Service
		store   *documentMemory.FileStore
		ctx     context.Context
	)

	upload := func(name, content string) (*document.Document, error) {
		return service.Upload(ctx, document.UploadDTO{
			ClaimID:      1,
			Uploader:     "Thandi Mokoena",
			FileName:     name,
			ContentType:  "application/pdf",
			DocumentType: "Timesheet",
			Description:  "March teaching hours",
			DeclaredSize: int64(len(content)),
		}, strings.NewReader(content))
	}

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		store = documentMemory.NewFileStore()
		service = document.NewService(documentMemory.NewDocumentRepository(), &stubClaims{known: 1}, store, lg)
		ctx = context.Background()
	})

	Describe("ValidateFile", func() {
		It("accepts the allowed extensions", func() {
			for _, name := range []string{"timesheet.pdf", "scan.JPG", "proof.png", "notes.docx", "hours.xlsx"} {
				Expect(document.ValidateFile(name, 1024)).To(Succeed())
			}
		})

		It("rejects disallowed extensions", func() {
			err := document.ValidateFile("malware.exe", 1024)
			Expect(err).To(HaveOccurred())
		})

		It("rejects files over the size limit", func() {
			err := document.ValidateFile("timesheet.pdf", document.MaxFileSize+1)
			Expect(err).To(HaveOccurred())
		})

		It("collects extension and size errors together", func() {
			err := document.ValidateFile("malware.exe", document.MaxFileSize+1)
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(2))
		})
	})

	Describe("Upload", func() {
		It("stores bytes and metadata under a generated name", func() {
			d, err := upload("March Timesheet.pdf", "pdf bytes")
			Expect(err).NotTo(HaveOccurred())

			Expect(d.ID).To(BeNumerically(">", 0))
			Expect(d.OriginalName).To(Equal("March Timesheet.pdf"))
			Expect(d.StoredName).To(HaveSuffix(".pdf"))
			Expect(d.StoredName).NotTo(ContainSubstring("March"))
			Expect(d.SizeBytes).To(Equal(int64(len("pdf bytes"))))
			Expect(d.DocumentType).To(Equal("Timesheet"))
			Expect(d.Description).To(Equal("March teaching hours"))

			got, rc, err := service.Open(d.ID)
			Expect(err).NotTo(HaveOccurred())
			defer rc.Close()

			content, err := io.ReadAll(rc)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("pdf bytes"))
			Expect(got.ClaimID).To(Equal(int64(1)))
		})

		It("rejects uploads for unknown claims", func() {
			_, err := service.Upload(ctx, document.UploadDTO{
				ClaimID:      99,
				Uploader:     "Thandi Mokoena",
				FileName:     "timesheet.pdf",
				ContentType:  "application/pdf",
				DeclaredSize: 4,
			}, strings.NewReader("data"))
			Expect(err).To(Equal(internal.ErrClaimNotFound))
		})

		It("rejects invalid files before touching storage", func() {
			_, err := upload("malware.exe", "data")
			Expect(err).To(HaveOccurred())

			_, openErr := store.Open("anything")
			Expect(openErr).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("removes metadata and stored bytes", func() {
			d, err := upload("timesheet.pdf", "pdf bytes")
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, d.ID)).To(Succeed())

			_, err = service.GetDocument(d.ID)
			Expect(err).To(Equal(internal.ErrDocumentNotFound))

			_, err = store.Open(d.StoredName)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListForClaim", func() {
		It("returns only the claim's documents in upload order", func() {
			first, err := upload("one.pdf", "1")
			Expect(err).NotTo(HaveOccurred())
			second, err := upload("two.pdf", "22")
			Expect(err).NotTo(HaveOccurred())

			docs, err := service.ListForClaim(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			Expect(docs[0].ID).To(Equal(first.ID))
			Expect(docs[1].ID).To(Equal(second.ID))
		})
	})
})
