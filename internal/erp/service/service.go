package service

import (
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/config"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services ERP service set
type Services struct {
	Bom         *BomService
	Procurement *ProcurementService
	Supplier    *SupplierService
	Employee    *EmployeeService
	Report      *ReportService
}

// NewServices creates the ERP service set
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio unavailable, file uploads disabled", zap.Error(err))
			minioClient = nil
		}
	}

	return &Services{
		Bom:         NewBomService(repos.Bom, minioClient, cfg.MinIO.Bucket, logger),
		Procurement: NewProcurementService(repos.Bom, repos.PO, repos.Supplier, repos.GoodsReceipt, rdb, logger),
		Supplier:    NewSupplierService(repos.Supplier),
		Employee:    NewEmployeeService(repos.Employee, minioClient, cfg.MinIO.Bucket),
		Report:      NewReportService(repos.Bom, repos.PO, repos.Supplier, repos.Employee, rdb, logger),
	}
}
