package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nPaBwaYT/SDESBmp/bmp"
	"github.com/nPaBwaYT/SDESBmp/config"
	"github.com/nPaBwaYT/SDESBmp/cripta"
)

/*
Шифрование пиксельных данных BMP в режиме CBC
go run . -e -m=cbc -k=1010000010 -iv=0xA3 input.bmp output.bmp

Дешифрование
go run . -d -m=cbc -k=1010000010 -iv=0xA3 output.bmp restored.bmp

CTR с параллельной обработкой
go run . -e -m=ctr -k=1010000010 -iv=0x17 -parallel input.bmp output.bmp

Без -e/-d в терминале параметры запрашиваются интерактивно.

Алгоритм: S-DES (блок 8 бит, ключ 10 бит)
Режимы шифрования: ECB, CBC, CTR
Параллельная обработка: ECB, CTR и дешифрование CBC
*/

type options struct {
	direction cripta.Direction
	key       cripta.Key
	mode      cripta.CipherMode
	iv        uint8
	ivSet     bool
	parallel  bool
	workers   int
	input     string
	output    string
}

type runResult struct {
	stats    *bmp.Stats
	k1, k2   uint8
	duration time.Duration
}

func main() {
	encryptFlag := flag.Bool("e", false, "Режим шифрования")
	decryptFlag := flag.Bool("d", false, "Режим дешифрования")
	modeFlag := flag.String("m", "", "Режим шифрования: ecb, cbc, ctr")
	keyFlag := flag.String("k", "", "Ключ: 10 бит, например 1010000010")
	ivFlag := flag.String("iv", "", "IV для CBC / nonce для CTR: 0xA3 или 163")
	parallelFlag := flag.Bool("parallel", false, "Использовать параллельную обработку (ECB, CTR, дешифрование CBC)")
	workersFlag := flag.Int("workers", 0, "Число горутин для параллельной обработки (0 = по числу CPU)")
	configFlag := flag.String("config", "", "Путь к YAML конфигурации")
	logLevelFlag := flag.String("log-level", "", "Уровень логирования: debug, info, warn, error")

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}
	if err := setupLogging(cfg.Log); err != nil {
		log.Fatalf("Ошибка настройки логирования: %v", err)
	}

	opts := &options{
		parallel: *parallelFlag || cfg.Cipher.Parallel,
		workers:  cfg.Cipher.Workers,
	}
	if *workersFlag > 0 {
		opts.workers = *workersFlag
	}

	if !*encryptFlag && !*decryptFlag && isInteractive() {
		if err := newTerminalPrompter().collect(opts); err != nil {
			log.Fatalf("Ошибка ввода: %v", err)
		}
	} else {
		if *encryptFlag == *decryptFlag {
			fmt.Println("Использование:")
			fmt.Println("  Шифрование: go run . -e -m=cbc -k=1010000010 -iv=0xA3 input.bmp output.bmp")
			fmt.Println("  Дешифрование: go run . -d -m=cbc -k=1010000010 -iv=0xA3 input.bmp output.bmp")
			fmt.Println("\nФлаги:")
			flag.PrintDefaults()
			os.Exit(1)
		}

		args := flag.Args()
		if len(args) != 2 {
			fmt.Println("Ошибка: необходимо указать входной и выходной файлы")
			os.Exit(1)
		}

		opts.direction = cripta.DirectionEncrypt
		if *decryptFlag {
			opts.direction = cripta.DirectionDecrypt
		}
		opts.input = args[0]
		opts.output = args[1]

		if err := applySettings(opts, pick(*keyFlag, cfg.Cipher.Key), pick(*modeFlag, cfg.Cipher.Mode), pick(*ivFlag, cfg.Cipher.IV)); err != nil {
			log.Fatalf("Ошибка параметров: %v", err)
		}
	}

	if _, err := os.Stat(opts.input); os.IsNotExist(err) {
		log.Fatalf("Ошибка: входной файл '%s' не существует", opts.input)
	}

	result, err := run(opts)
	if err != nil {
		log.Fatalf("Ошибка %s: %v", opts.direction, err)
	}

	printSummary(os.Stdout, opts, result)
}

// pick возвращает значение флага, если оно задано, иначе значение из конфигурации
func pick(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

// setupLogging настраивает logrus по секции log конфигурации
func setupLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// applySettings проверяет ключ, режим и IV до начала обработки
func applySettings(opts *options, keyBits, modeText, ivText string) error {
	var err error

	if opts.key, err = cripta.ParseKey(keyBits); err != nil {
		return err
	}
	if opts.mode, err = cripta.ParseCipherMode(modeText); err != nil {
		return err
	}

	if opts.mode.NeedsIV() && ivText != "" {
		if opts.iv, err = cripta.ParseIV(ivText); err != nil {
			return err
		}
		opts.ivSet = true
	}

	return nil
}

// getOrGenerateIV возвращает заданный IV или генерирует новый при шифровании
func getOrGenerateIV(opts *options) error {
	if !opts.mode.NeedsIV() || opts.ivSet {
		return nil
	}

	if opts.direction == cripta.DirectionDecrypt {
		return fmt.Errorf("для дешифрования в режиме %s необходимо указать IV/nonce", opts.mode)
	}

	iv, err := cripta.GenerateIV()
	if err != nil {
		return err
	}
	opts.iv = iv
	opts.ivSet = true

	log.WithField("iv", fmt.Sprintf("0x%02X", iv)).Warn("IV не задан, сгенерирован случайный")
	return nil
}

// run создает шифр и контекст, затем обрабатывает файл
func run(opts *options) (*runResult, error) {
	if err := getOrGenerateIV(opts); err != nil {
		return nil, err
	}

	sdes, err := cripta.NewSDESCipherWithKey(opts.key)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания шифра: %w", err)
	}
	k1, k2 := sdes.RoundKeys()

	log.WithFields(log.Fields{
		"k1": cripta.BinaryString(uint16(k1), 8),
		"k2": cripta.BinaryString(uint16(k2), 8),
	}).Debug("раундовые ключи")

	ctx, err := cripta.NewCipherContext(sdes, opts.mode, opts.iv, opts.parallel)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания контекста шифрования: %w", err)
	}
	ctx.SetWorkers(opts.workers)

	startTime := time.Now()

	stats, err := bmp.TransformFile(opts.input, opts.output, ctx, opts.direction)
	if err != nil {
		return nil, err
	}

	result := &runResult{
		stats:    stats,
		k1:       k1,
		k2:       k2,
		duration: time.Since(startTime),
	}

	log.WithFields(log.Fields{
		"input":  opts.input,
		"output": opts.output,
		"mode":   opts.mode,
		"pixels": stats.PixelBytes,
	}).Info("готово")

	return result, nil
}

// printSummary выводит информацию о выполненной операции
func printSummary(w io.Writer, opts *options, result *runResult) {
	fmt.Fprintf(w, "Done. Wrote %s\n", opts.output)
	fmt.Fprintf(w, "\nИнформация:\n")
	fmt.Fprintf(w, "  Операция: %s\n", opts.direction)
	fmt.Fprintf(w, "  Режим: %s\n", opts.mode)
	fmt.Fprintf(w, "  Параллельная обработка: %v\n", opts.parallel)
	fmt.Fprintf(w, "  Заголовок и палитра: %d байт\n", result.stats.HeaderBytes)
	fmt.Fprintf(w, "  Пиксельные данные: %d байт\n", result.stats.PixelBytes)
	fmt.Fprintf(w, "  Время выполнения: %v\n", result.duration)
	fmt.Fprintf(w, "  Ключ: %s\n", opts.key)
	fmt.Fprintf(w, "  K1: %s  K2: %s\n", cripta.BinaryString(uint16(result.k1), 8), cripta.BinaryString(uint16(result.k2), 8))
	if opts.mode.NeedsIV() {
		fmt.Fprintf(w, "  IV: 0x%02X\n", opts.iv)
	}
}
